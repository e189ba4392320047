package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string
	WebhookSecret     string
	PaymentCurrency   string

	AMQPURL      string
	AMQPExchange string

	LockTTL       time.Duration
	SweepInterval time.Duration
}

func LoadEnv() Env {
	return Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getenv("DB_USER", "root"),
		DBPass: strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost: getenv("DB_HOST", "127.0.0.1:3306"),
		DBName: getenv("DB_NAME", "locationhub"),

		JWTSecret: getenv("JWT_SECRET", "super-secret-key-change-me"),

		RazorpayKeyID:     strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		RazorpayKeySecret: strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
		WebhookSecret:     strings.TrimSpace(os.Getenv("RAZORPAY_WEBHOOK_SECRET")),
		PaymentCurrency:   getenv("PAYMENT_CURRENCY", "INR"),

		AMQPURL:      strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange: getenv("AMQP_EXCHANGE", "locationhub.events"),

		LockTTL:       time.Duration(getenvInt("LOCK_TTL_MINUTES", 10)) * time.Minute,
		SweepInterval: time.Duration(getenvInt("LOCK_SWEEP_SECONDS", 60)) * time.Second,
	}
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
