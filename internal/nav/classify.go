package nav

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/morozRed/railsnav/internal/convention"
)

// Kind is the role a file plays in controller/view navigation.
type Kind int

const (
	KindUnknown Kind = iota
	KindController
	KindView
)

func (k Kind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindView:
		return "view"
	default:
		return "unknown"
	}
}

// Patterns holds the path expressions derived from convention.Options.
type Patterns struct {
	templated  *regexp.Regexp
	bareView   *regexp.Regexp
	controller *regexp.Regexp
	view       *regexp.Regexp
	suffix     string
}

// CompilePatterns builds the classification and extraction expressions for
// opts.
func CompilePatterns(opts convention.Options) *Patterns {
	contentTypes := quoteAll(opts.ContentTypes)
	engines := quoteAll(opts.Engines)
	views := regexp.QuoteMeta(opts.ViewsDir)
	controllers := regexp.QuoteMeta(opts.ControllersDir)

	return &Patterns{
		templated:  regexp.MustCompile(`\.(` + contentTypes + `)\.(` + engines + `)$`),
		bareView:   regexp.MustCompile(`/` + views + `/.*\.(` + contentTypes + `)$`),
		controller: regexp.MustCompile(`/` + controllers + `/(.+)` + regexp.QuoteMeta(opts.ControllerFileSuffix()) + `$`),
		view:       regexp.MustCompile(`/` + views + `/(.+)/([^/]+)$`),
		suffix:     opts.ControllerFileSuffix(),
	}
}

// Classify decides whether path is a controller, a view or neither.
func (p *Patterns) Classify(path string) Kind {
	path = filepath.ToSlash(path)
	switch {
	case strings.HasSuffix(path, p.suffix):
		return KindController
	case p.templated.MatchString(path), p.bareView.MatchString(path):
		return KindView
	default:
		return KindUnknown
	}
}

// ControllerIdentity extracts the logical controller name, e.g.
// ".../app/controllers/cms/orders_controller.rb" -> "cms/orders".
func (p *Patterns) ControllerIdentity(path string) (string, error) {
	m := p.controller.FindStringSubmatch(filepath.ToSlash(path))
	if m == nil {
		return "", NewError(ErrPattern, nil, "could not parse controller path: %s", path)
	}
	return m[1], nil
}

// ViewIdentity extracts the controller identity and action of a view, e.g.
// ".../app/views/cms/orders/index.html.erb" -> ("cms/orders", "index").
func (p *Patterns) ViewIdentity(path string) (identity, action string, err error) {
	m := p.view.FindStringSubmatch(filepath.ToSlash(path))
	if m == nil {
		return "", "", NewError(ErrPattern, nil, "could not parse view path: %s", path)
	}
	action, _, _ = strings.Cut(m[2], ".")
	if action == "" {
		return "", "", NewError(ErrPattern, nil, "could not parse view path: %s", path)
	}
	return m[1], action, nil
}

func quoteAll(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, word := range words {
		quoted = append(quoted, regexp.QuoteMeta(word))
	}
	return strings.Join(quoted, "|")
}
