package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// PoolTimeout держим меньше секунды: при недоступности Redis
	// запросы должны быстро падать, а не копиться в очереди за соединением
	PoolSize    int    `yaml:"pool_size"`
	PoolTimeout string `yaml:"pool_timeout"`
}

type JWTConfig struct {
	PrivateKeyPath  string `yaml:"private_key_path"`
	PublicKeyPath   string `yaml:"public_key_path"`
	Issuer          string `yaml:"issuer"`
	KeyID           string `yaml:"key_id"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}
