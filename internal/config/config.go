package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings are used for identifiers and secrets,
// ints for durations and costs.  Optional collaborator settings (SendGrid,
// S3, UPI) may be empty, in which case the corresponding subsystem runs in
// stub mode.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	DBMaxOpenConns int    // connection pool upper bound
	DBMaxIdleConns int    // idle connections kept warm in the pool
	DBConnLifeMin  int    // connection max lifetime in minutes
	JWTSecret      string // secret used to sign JWTs
	TokenTTLDays   int    // role-cookie JWT time-to-live in days
	CookieTTLDays  int    // cookie expiry in days (usually matches TokenTTLDays)
	BcryptCost     int    // bcrypt cost for password hashing
	FrontendURL    string // public site origin allowed by CORS
	DashboardURL   string // admin dashboard origin allowed by CORS
	SendGridAPIKey string // SendGrid key; empty disables real email delivery
	MailFromEmail  string // sender address for outbound email
	MailFromName   string // sender display name for outbound email
	PhotoBucket    string // S3 bucket for doctor photos; empty disables uploads
	UPIVirtualAddr string // hospital UPI VPA encoded into payment links
	PaymentHost    string // external base URL used for payment callbacks
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMaxOpenConns: atoi(getenv("DB_MAX_OPEN_CONNS", "25")),
		DBMaxIdleConns: atoi(getenv("DB_MAX_IDLE_CONNS", "25")),
		DBConnLifeMin:  atoi(getenv("DB_CONN_LIFETIME_MIN", "30")),
		JWTSecret:      must("JWT_SECRET"),
		TokenTTLDays:   mustInt("JWT_EXPIRES_DAYS"),
		CookieTTLDays:  mustInt("COOKIE_EXPIRES_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		FrontendURL:    getenv("FRONTEND_URL", "http://localhost:5173"),
		DashboardURL:   getenv("DASHBOARD_URL", "http://localhost:5174"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFromEmail:  getenv("MAIL_FROM_EMAIL", "no-reply@satyahospital.in"),
		MailFromName:   getenv("MAIL_FROM_NAME", "Satya Trauma & Maternity Center"),
		PhotoBucket:    os.Getenv("DOCTOR_PHOTO_BUCKET"),
		UPIVirtualAddr: getenv("UPI_VPA", "satya.hospital@upi"),
		PaymentHost:    getenv("PAYMENT_CALLBACK_BASE", "http://localhost:4000"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
