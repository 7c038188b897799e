package ninjacatalog

import (
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

func (app *Crawler) bootstrap() {
	if app.engine.CheckRobotsTxt != nil && *app.engine.CheckRobotsTxt {
		app.checkRobotsTxt()
	}
}

func (app *Crawler) checkRobotsTxt() {
	app.Logger.Info("Checking robots.txt")
	robotsData, err := fetchRobotsTxt(app.BaseUrl, app.GetUserAgent())
	if err != nil {
		app.Logger.Warn("Could not load robots.txt, crawling without it: %v", err)
		return
	}
	app.robotsData = robotsData
	if !robotsData.TestAgent("/", app.GetUserAgent()) {
		app.Logger.Summary("Crawling of the site root is disallowed by robots.txt")
	}
}

func fetchRobotsTxt(baseUrl, userAgent string) (*robotstxt.RobotsData, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest(http.MethodGet, baseUrl+"/robots.txt", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	response, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	return robotstxt.FromResponse(response)
}

// shouldCrawl reports whether robots.txt allows the url. Unparseable urls are
// left to the fetcher to reject.
func shouldCrawl(fullURL string, robotsData *robotstxt.RobotsData, userAgent string) bool {
	if robotsData == nil {
		return true
	}
	parsedURL, err := url.Parse(fullURL)
	if err != nil || parsedURL.Path == "" {
		return true
	}
	return robotsData.FindGroup(userAgent).Test(parsedURL.Path)
}
