package ninjacatalog

import (
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// Engine holds the per-site crawl settings. Zero values keep the defaults.
type Engine struct {
	ConcurrentLimit    int
	Timeout            time.Duration
	UserAgent          string
	MaxRetryAttempts   int
	RetrySleepDuration time.Duration
	CheckRobotsTxt     *bool
	StoreHtml          *bool
	LogToFile          *bool
}

func Bool(v bool) *bool {
	return &v
}

func getDefaultEngine() Engine {
	return Engine{
		ConcurrentLimit:    1,
		Timeout:            30 * time.Second,
		UserAgent:          defaultUserAgent,
		MaxRetryAttempts:   3,
		RetrySleepDuration: 2 * time.Second,
		CheckRobotsTxt:     Bool(false),
		StoreHtml:          Bool(false),
		LogToFile:          Bool(true),
	}
}

func overrideEngineDefaults(defaultEngine *Engine, eng *Engine) {
	if eng.ConcurrentLimit > 0 {
		defaultEngine.ConcurrentLimit = eng.ConcurrentLimit
	}
	if eng.Timeout > 0 {
		defaultEngine.Timeout = eng.Timeout
	}
	if eng.UserAgent != "" {
		defaultEngine.UserAgent = eng.UserAgent
	}
	if eng.MaxRetryAttempts > 0 {
		defaultEngine.MaxRetryAttempts = eng.MaxRetryAttempts
	}
	if eng.RetrySleepDuration > 0 {
		defaultEngine.RetrySleepDuration = eng.RetrySleepDuration
	}
	if eng.CheckRobotsTxt != nil {
		defaultEngine.CheckRobotsTxt = eng.CheckRobotsTxt
	}
	if eng.StoreHtml != nil {
		defaultEngine.StoreHtml = eng.StoreHtml
	}
	if eng.LogToFile != nil {
		defaultEngine.LogToFile = eng.LogToFile
	}
}

// applyEnvironment lets USER_AGENT, CONCURRENT_LIMIT and STORE_HTML override
// the site engine for a deployment.
func applyEnvironment(engine *Engine, config *configService) {
	engine.UserAgent = config.EnvString("USER_AGENT", engine.UserAgent)
	if limit := config.EnvInt("CONCURRENT_LIMIT", 0); limit > 0 {
		engine.ConcurrentLimit = limit
	}
	if config.IsSet("STORE_HTML") {
		engine.StoreHtml = Bool(config.GetBool("STORE_HTML"))
	}
}

func (app *Crawler) SetConcurrentLimit(concurrentLimit int) *Crawler {
	if concurrentLimit > 0 {
		app.engine.ConcurrentLimit = concurrentLimit
	}
	return app
}

func (app *Crawler) SetTimeout(timeout time.Duration) *Crawler {
	app.engine.Timeout = timeout
	return app
}

func (app *Crawler) SetUserAgent(userAgent string) *Crawler {
	app.engine.UserAgent = userAgent
	return app
}

func (app *Crawler) EnableRobotsTxt() *Crawler {
	app.engine.CheckRobotsTxt = Bool(true)
	return app
}

func (app *Crawler) StoreHtml() *Crawler {
	app.engine.StoreHtml = Bool(true)
	return app
}

func (app *Crawler) GetUserAgent() string {
	return app.engine.UserAgent
}
