package nutribot

import "time"

type BotConfig struct {
	Token       string `env:"BOT_TOKEN"`
	Mode        string `env:"MODE,default=polling"`
	WebhookHost string `env:"WEBHOOK_HOST"`
	Port        int    `env:"PORT,default=8000"`
}

// WebhookPath is the path Telegram posts updates to.
func (c BotConfig) WebhookPath() string {
	return "/webhook/" + c.Token
}

// WebhookURL is the public URL registered with Telegram.
func (c BotConfig) WebhookURL() string {
	return c.WebhookHost + c.WebhookPath()
}

type WeatherConfig struct {
	APIKey  string        `env:"WEATHER_API_KEY"`
	BaseURL string        `env:"WEATHER_BASE_URL,default=http://api.openweathermap.org"`
	Timeout time.Duration `env:"WEATHER_TIMEOUT,default=5s"`
}

type FoodConfig struct {
	CatalogPath          string        `env:"FOOD_CATALOG_PATH"`
	CatalogS3Bucket      string        `env:"FOOD_CATALOG_S3_BUCKET"`
	CatalogS3Key         string        `env:"FOOD_CATALOG_S3_KEY,default=foods.yaml"`
	OpenFoodFactsBaseURL string        `env:"OPENFOODFACTS_BASE_URL,default=https://world.openfoodfacts.org"`
	LookupTimeout        time.Duration `env:"FOOD_LOOKUP_TIMEOUT,default=5s"`
}

type LogConfig struct {
	Exchange string `env:"EXCHANGE_LOG,default=stdout"`
	Dir      string `env:"LOG_DIR,default=./logs"`
}

type SlackConfig struct {
	WebhookURL string `env:"SLACK_WEBHOOK_URL"`
	Channel    string `env:"SLACK_CHANNEL,default=#nutrition"`
}
