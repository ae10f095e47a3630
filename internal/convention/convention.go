package convention

import (
	"fmt"
	"strings"
)

// Extension is a view template extension made of a content type and a
// templating engine, e.g. html + erb.
type Extension struct {
	Format  string `json:"format"`
	Handler string `json:"handler"`
}

func (e Extension) String() string {
	return "." + e.Format + "." + e.Handler
}

// Options describes the directory and file naming layout of a Rails project.
// Every resolver and classifier takes Options explicitly so tests can run
// against synthetic layouts.
type Options struct {
	AppDir           string
	ControllersDir   string
	ViewsDir         string
	ControllerSuffix string
	SourceExt        string

	// ViewExtensions is ordered; earlier entries win when several views exist
	// for the same action.
	ViewExtensions []Extension

	// ContentTypes and Engines drive view classification.
	ContentTypes []string
	Engines      []string

	// MultiRootPrefixes are the top-level directories that host
	// sub-applications keyed by the first identity segment.
	MultiRootPrefixes []string
}

// Default returns the Rails layout railsnav navigates by default.
func Default() Options {
	return Options{
		AppDir:           "app",
		ControllersDir:   "controllers",
		ViewsDir:         "views",
		ControllerSuffix: "_controller",
		SourceExt:        ".rb",
		ViewExtensions: []Extension{
			{Format: "html", Handler: "erb"},
			{Format: "html", Handler: "haml"},
			{Format: "html", Handler: "slim"},
			{Format: "json", Handler: "jbuilder"},
			{Format: "json", Handler: "erb"},
			{Format: "xml", Handler: "builder"},
			{Format: "xml", Handler: "erb"},
			{Format: "js", Handler: "erb"},
			{Format: "text", Handler: "erb"},
		},
		ContentTypes:      []string{"html", "json", "xml", "js", "text"},
		Engines:           []string{"erb", "haml", "slim", "builder", "jbuilder"},
		MultiRootPrefixes: []string{"domains", "apps"},
	}
}

// ControllerFileSuffix is the full suffix of a controller file name,
// e.g. "_controller.rb".
func (o Options) ControllerFileSuffix() string {
	return o.ControllerSuffix + o.SourceExt
}

func (o Options) Validate() error {
	required := map[string]string{
		"app dir":           o.AppDir,
		"controllers dir":   o.ControllersDir,
		"views dir":         o.ViewsDir,
		"controller suffix": o.ControllerSuffix,
		"source extension":  o.SourceExt,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("convention: %s must not be empty", name)
		}
	}
	if len(o.ViewExtensions) == 0 {
		return fmt.Errorf("convention: at least one view extension is required")
	}
	for _, ext := range o.ViewExtensions {
		if ext.Format == "" || ext.Handler == "" {
			return fmt.Errorf("convention: invalid view extension %q", ext.String())
		}
	}
	if len(o.ContentTypes) == 0 || len(o.Engines) == 0 {
		return fmt.Errorf("convention: content types and engines are required")
	}
	return nil
}
