package dynamo

// DynamoDB attribute names used in update expressions and key conditions.
const (
	fieldEnable           = "enable"
	fieldUpdatedAt        = "updated_at"
	fieldRefreshToken     = "refresh_token"
	fieldRefreshExpiresAt = "refresh_expires_at"
	fieldChannel          = "channel"
	fieldSortKey          = "sort_key"
	fieldKVKey            = "key"
	fieldKVValue          = "value"
)
