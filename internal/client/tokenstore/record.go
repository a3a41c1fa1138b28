package tokenstore

// Keys under which a Record is persisted. Values are always strings;
// timestamps are decimal Unix milliseconds.
const (
	KeyAccessToken           = "authToken"
	KeyRefreshToken          = "refreshToken"
	KeyAccessTokenExpiresAt  = "accessTokenExpiresAt"
	KeyRefreshTokenExpiresAt = "refreshTokenExpiresAt"
	KeyUsername              = "username"
	KeyEmail                 = "userEmail"
	KeyUserID                = "userId"
	KeyLoginTimestamp        = "loginTimestamp"
)

// Keys lists every key the store owns, in write order.
var Keys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyAccessTokenExpiresAt,
	KeyRefreshTokenExpiresAt,
	KeyUsername,
	KeyEmail,
	KeyUserID,
	KeyLoginTimestamp,
}

// Record is the persisted authentication state.
//
// Empty strings and nil expiries mean "absent". LoginTimestamp is filled in
// by Save and ignored on input.
type Record struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  *int64
	RefreshTokenExpiresAt *int64
	UserID                string
	Username              string
	Email                 string
	LoginTimestamp        int64
}

// Millis is a helper for building optional expiry fields.
func Millis(v int64) *int64 {
	return &v
}
