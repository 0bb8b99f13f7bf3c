package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string     `yaml:"env" env-default:"local"`
	SessionStore string     `yaml:"session_store" env-default:"memory"`
	TokenSecret  string     `yaml:"token_secret" env:"TOKEN_SECRET" env-default:"united-network-demo"`
	CookieSecret string     `yaml:"cookie_secret" env:"COOKIE_SECRET" env-default:"united-network-cookie"`
	ItemsPerPage int        `yaml:"items_per_page" env-default:"9"`
	DiscordURL   string     `yaml:"discord_url" env-default:"https://discord.gg/unitednetworkmc"`
	HTTP         HTTPConfig `yaml:"http"`
	Redis        RedisConf  `yaml:"redis"`
	Hero         HeroConfig `yaml:"hero"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type HeroConfig struct {
	Texts []string      `yaml:"texts"`
	Speed time.Duration `yaml:"speed" env-default:"100ms"`
	Pause time.Duration `yaml:"pause" env-default:"2s"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
