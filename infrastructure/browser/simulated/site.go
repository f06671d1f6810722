package simulated

import (
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Event is a DOM event a gesture dispatches.
type Event string

const (
	EventClick       Event = "click"
	EventDoubleClick Event = "dblclick"
	EventContextMenu Event = "contextmenu"
	EventChange      Event = "change"
)

// Env is what a page script can touch.
type Env struct {
	Doc *goquery.Document
	// Download saves content under the browser's download directory.
	Download func(name string, content []byte)
}

// Handler reacts to Event on elements matching the CSS selector Match.
type Handler struct {
	Event Event
	Match string
	Run   func(env *Env, target *goquery.Selection)
}

// Page is one simulated document.
type Page struct {
	HTML     string
	Handlers []Handler
}

// Site maps the last path segment of a URL to a page.
type Site map[string]Page

func (s Site) lookup(rawURL string) (Page, bool) {
	u := rawURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	p, ok := s[path.Base(u)]
	return p, ok
}

// SampleDownload is the file behind the practice page's download button.
var SampleDownload = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0xff, 0xd9}

const notFoundHTML = `<html><head><title>404 Not Found</title></head><body><h1>Not Found</h1></body></html>`

// PracticeSite models the four practice pages the suites exercise.
func PracticeSite() Site {
	return Site{
		"buttons.php":         buttonsPage(),
		"radio-button.php":    radioPage(),
		"text-box.php":        textBoxPage(),
		"upload-download.php": uploadDownloadPage(),
	}
}

func buttonsPage() Page {
	return Page{
		HTML: `<html><head><title>Selenium Practice - Buttons</title></head><body>
<div class="container"><div class="row"><div class="col-md-8 col-lg-8 col-xl-8">
<h1>Buttons</h1>
<button type="button" class="btn btn-primary" id="clickme">Click Me</button>
<button type="button" class="btn btn-primary" id="rightclick">Right Click Me</button>
<button type="button" class="btn btn-primary" id="dblclick">Double Click Me</button>
<div id="welcomeDiv" class="answer_list" style="display:none">You have done a dynamic click</div>
<div id="doublec" class="answer_list" style="display:none">You have Double clicked</div>
</div></div></div>
</body></html>`,
		Handlers: []Handler{
			{Event: EventClick, Match: "#clickme", Run: func(env *Env, _ *goquery.Selection) {
				show(env.Doc.Find("#welcomeDiv"))
			}},
			{Event: EventDoubleClick, Match: "#dblclick", Run: func(env *Env, _ *goquery.Selection) {
				show(env.Doc.Find("#doublec"))
			}},
		},
	}
}

func radioPage() Page {
	return Page{
		HTML: `<html><head><title>Selenium Practice - Radio Button</title></head><body>
<div class="container"><div class="row"><div class="col-md-8 col-lg-8 col-xl-8">
<h1>Radio Button</h1>
<div class="form-check"><input class="form-check-input" type="radio" name="tab" value="igottwo" id="yes"><label class="form-check-label" for="yes">Yes</label></div>
<div class="form-check"><input class="form-check-input" type="radio" name="tab" value="igotthree" id="impressive"><label class="form-check-label" for="impressive">Impressive</label></div>
<div id="check" style="display:none">You have checked Yes</div>
<div id="check1" style="display:none">You have checked Impressive</div>
<div class="form-check"><input class="form-check-input" type="radio" name="tab" value="igotfour" id="no" disabled><label class="form-check-label" for="no">No</label></div>
</div></div></div>
</body></html>`,
		Handlers: []Handler{
			{Event: EventClick, Match: "input[value='igottwo']", Run: func(env *Env, _ *goquery.Selection) {
				show(env.Doc.Find("#check"))
				hide(env.Doc.Find("#check1"))
			}},
			{Event: EventClick, Match: "input[value='igotthree']", Run: func(env *Env, _ *goquery.Selection) {
				show(env.Doc.Find("#check1"))
				hide(env.Doc.Find("#check"))
			}},
		},
	}
}

func textBoxPage() Page {
	return Page{
		HTML: `<html><head><title>Selenium Practice - Text Box</title></head><body>
<div class="container"><div class="row"><div class="col-md-8 col-lg-8 col-xl-8">
<h1>Text Box</h1>
<form id="TextForm" action="text-box.php" method="post">
<div class="form-group"><label for="fullname">Full Name:</label><input type="text" class="form-control" id="fullname" name="fullname" placeholder="Enter Full Name"></div>
<div class="form-group"><label for="email">Email:</label><input type="email" class="form-control" id="email" name="email" placeholder="name@example.com"></div>
<div class="form-group"><label for="address">Address:</label><textarea class="form-control" id="address" name="address" rows="3"></textarea></div>
<div class="form-group"><label for="password">Password:</label><input type="password" class="form-control" id="password" name="password"></div>
<input type="submit" class="btn btn-primary" value="Submit">
</form>
</div></div></div>
</body></html>`,
	}
}

func uploadDownloadPage() Page {
	return Page{
		HTML: `<html><head><title>Selenium Practice - Upload and Download</title></head><body>
<div class="container"><div class="row"><div class="col-md-8 col-lg-8 col-xl-8">
<h1>Upload and Download</h1>
<a href="jpeg/sampleFile.jpeg" download id="downloadButton" class="btn btn-primary">Download</a>
<form id="uploadForm">
<label class="form-file-label" for="uploadFile">Select a file</label>
<input class="form-control" type="file" id="uploadFile" name="uploadFile">
</form>
</div></div></div>
</body></html>`,
		Handlers: []Handler{
			{Event: EventClick, Match: "#downloadButton", Run: func(env *Env, target *goquery.Selection) {
				env.Download(path.Base(target.AttrOr("href", "download")), SampleDownload)
			}},
			{Event: EventChange, Match: "#uploadFile", Run: func(env *Env, target *goquery.Selection) {
				label := env.Doc.Find("label.form-file-label")
				if name := target.AttrOr("value", ""); name != "" {
					label.SetText(path.Base(strings.ReplaceAll(name, `\`, "/")))
				} else {
					label.SetText("Select a file")
				}
			}},
		},
	}
}
