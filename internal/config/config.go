package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	BinanceAPIURL          string
	APITimeoutSecs         int
	MaxRetries             int
	BaseRetryDelayMillis   int
	ConnectionLimit        int
	ConnectionLimitPerHost int
	DNSCacheTTLSecs        int

	RedisURL          string
	PriceCacheTTLSecs int

	HTTPPort int

	MCPTransport          string
	MCPHTTPEnabled        bool
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int
}

func Load() *Config {
	cfg := &Config{
		RedisURL:     os.Getenv("REDIS_URL"),
		MCPAuthToken: os.Getenv("MCP_AUTH_TOKEN"),
	}

	cfg.BinanceAPIURL = strings.TrimSpace(os.Getenv("BINANCE_API_URL"))
	if cfg.BinanceAPIURL == "" {
		cfg.BinanceAPIURL = "https://api.binance.com/api/v3"
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, price caching disabled")
	}

	cfg.APITimeoutSecs = 10
	if v := strings.TrimSpace(os.Getenv("API_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APITimeoutSecs = n
		}
	}

	cfg.MaxRetries = 3
	if v := strings.TrimSpace(os.Getenv("MAX_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	cfg.BaseRetryDelayMillis = 100
	if v := strings.TrimSpace(os.Getenv("BASE_RETRY_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BaseRetryDelayMillis = n
		}
	}

	cfg.ConnectionLimit = 100
	if v := strings.TrimSpace(os.Getenv("CONNECTION_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ConnectionLimit = n
		}
	}

	cfg.ConnectionLimitPerHost = 30
	if v := strings.TrimSpace(os.Getenv("CONNECTION_LIMIT_PER_HOST")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ConnectionLimitPerHost = n
		}
	}

	cfg.DNSCacheTTLSecs = 300
	if v := strings.TrimSpace(os.Getenv("DNS_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DNSCacheTTLSecs = n
		}
	}

	cfg.PriceCacheTTLSecs = 5
	if v := strings.TrimSpace(os.Getenv("PRICE_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PriceCacheTTLSecs = n
		}
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Printf("Warning: unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}

	cfg.MCPHTTPPort = 8090
	if v := strings.TrimSpace(os.Getenv("MCP_HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPHTTPPort = n
		}
	}

	cfg.MCPRequestTimeoutSecs = 15
	if v := strings.TrimSpace(os.Getenv("MCP_REQUEST_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPRequestTimeoutSecs = n
		}
	}

	cfg.MCPRateLimitPerMin = 60
	if v := strings.TrimSpace(os.Getenv("MCP_RATE_LIMIT_PER_MIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPRateLimitPerMin = n
		}
	}

	return cfg
}
