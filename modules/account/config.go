package account

// Session keys written by the account module.
const (
	SessionUserKey = "user_id"
	FlashErrors    = "errors"
	FlashNotices   = "notices"
)

// Config holds the redirect targets of the login flow.
type Config struct {
	LoginPath string `env:"ACCOUNT_LOGIN_PATH" envDefault:"/auth/password/login"`
	HomePath  string `env:"ACCOUNT_HOME_PATH" envDefault:"/"`
}

// DefaultConfig returns the paths used when the router is mounted at "/".
func DefaultConfig() Config {
	return Config{
		LoginPath: "/auth/password/login",
		HomePath:  "/",
	}
}
