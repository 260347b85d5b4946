package server

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultSiteURL is the public origin advertised to crawlers when none is configured.
const DefaultSiteURL = "https://dadrocktabs.com"

const (
	robotsPath  = "/api/robots.txt"
	sitemapPath = "/api/sitemap.xml"

	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapLastMod   = "2026-02-04"
)

const robotsTemplate = `User-agent: *
Allow: /
Disallow: /admin
Disallow: /admin/

Sitemap: %s` + sitemapPath + `
`

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Site serves the crawler files of the public site: robots.txt and sitemap.xml.
//
// It is a [Handler] and owns both routes, so it is registered with [Router.Handler].
type Site struct {
	robots  string
	sitemap []byte
}

// NewSite builds the crawler files for the site at baseURL, falling back to [DefaultSiteURL].
func NewSite(baseURL string) *Site {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultSiteURL
	}

	set := urlSet{
		Xmlns: sitemapNamespace,
		URLs: []sitemapURL{
			{Loc: baseURL + "/", LastMod: sitemapLastMod, ChangeFreq: "weekly", Priority: "1.0"},
			{Loc: baseURL + "/search", LastMod: sitemapLastMod, ChangeFreq: "daily", Priority: "0.9"},
		},
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("sitemap: %v", err))
	}

	return &Site{
		robots:  fmt.Sprintf(robotsTemplate, baseURL),
		sitemap: append([]byte(xml.Header), body...),
	}
}

// Routes returns the crawler file paths.
func (s *Site) Routes() []string {
	return []string{robotsPath, sitemapPath}
}

func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	switch r.URL.Path {
	case robotsPath:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, s.robots)
	case sitemapPath:
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write(s.sitemap)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}
