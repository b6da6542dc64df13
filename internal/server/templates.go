package server

import (
	_ "embed"
	"html/template"
)

//go:embed templates/callback.html
var callbackPageTemplateHTML string

//go:embed templates/home.html
var homePageTemplateHTML string

var callbackPageTemplate = template.Must(template.New("callback").Parse(callbackPageTemplateHTML))
var homePageTemplate = template.Must(template.New("home").Parse(homePageTemplateHTML))

// CallbackPageData represents the data for the post-redirect result page
type CallbackPageData struct {
	Success bool
	Title   string
	Message string
	// RedirectDelay is the number of seconds before the page navigates
	// back home.
	RedirectDelay int
}

// HomePageData represents the data for the connection status page
type HomePageData struct {
	Authenticated bool
	Expired       bool
}
