package method

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// Action is an instance method declared in a controller class body.
type Action struct {
	Name       string `json:"name"`
	Line       int    `json:"line"`
	Visibility string `json:"visibility"`
	Owner      string `json:"owner,omitempty"`
}

func (a Action) Public() bool {
	return a.Visibility == "public"
}

// Extractor lists controller actions with tree-sitter. It is not safe for
// concurrent use.
type Extractor struct {
	parser *sitter.Parser
}

// NewExtractor creates an Extractor backed by the Ruby grammar.
func NewExtractor() *Extractor {
	p := sitter.NewParser()
	p.SetLanguage(ruby.GetLanguage())
	return &Extractor{parser: p}
}

// Actions returns every instance method in declaration order together with
// its visibility. Visibility follows bare private/protected/public lines,
// `private def name` and `private :name` forms.
func (e *Extractor) Actions(ctx context.Context, content []byte) ([]Action, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	w := &actionWalker{content: content, overrides: make(map[string]string)}
	w.walk(tree.RootNode(), "", "public")

	for i := range w.actions {
		if vis, ok := w.overrides[w.key(w.actions[i])]; ok {
			w.actions[i].Visibility = vis
		}
	}
	return w.actions, nil
}

type actionWalker struct {
	content   []byte
	actions   []Action
	overrides map[string]string
}

func (w *actionWalker) key(a Action) string {
	return a.Owner + "#" + a.Name
}

// walk visits the statements of one scope; visibility carries across
// sibling statements and resets when entering a class or module.
func (w *actionWalker) walk(node *sitter.Node, owner, visibility string) string {
	if node == nil {
		return visibility
	}

	switch node.Type() {
	case "class", "module":
		name := owner
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name = nameNode.Content(w.content)
			if owner != "" {
				name = owner + "::" + name
			}
		}
		if body := node.ChildByFieldName("body"); body != nil {
			scope := "public"
			for i := 0; i < int(body.ChildCount()); i++ {
				scope = w.walk(body.Child(i), name, scope)
			}
		}
		return visibility

	case "method":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			w.actions = append(w.actions, Action{
				Name:       nameNode.Content(w.content),
				Line:       int(node.StartPoint().Row) + 1,
				Visibility: visibility,
				Owner:      owner,
			})
		}
		return visibility

	case "singleton_method", "singleton_class":
		return visibility

	case "identifier":
		if modifier, ok := visibilityModifier(node.Content(w.content)); ok {
			return modifier
		}
		return visibility

	case "call", "command":
		if modifier, handled := w.visibilityCall(node, owner); handled {
			if modifier != "" {
				return modifier
			}
			return visibility
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		visibility = w.walk(node.Child(i), owner, visibility)
	}
	return visibility
}

// visibilityCall handles `private`, `private def x` and `private :x`. It
// returns the new scope visibility when the call changes it.
func (w *actionWalker) visibilityCall(node *sitter.Node, owner string) (string, bool) {
	if node.ChildByFieldName("receiver") != nil {
		return "", false
	}
	methodNode := node.ChildByFieldName("method")
	if methodNode == nil {
		return "", false
	}
	modifier, ok := visibilityModifier(methodNode.Content(w.content))
	if !ok {
		return "", false
	}

	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return modifier, true
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "method":
			w.walk(arg, owner, modifier)
		case "simple_symbol", "symbol":
			name := strings.TrimPrefix(arg.Content(w.content), ":")
			w.overrides[owner+"#"+name] = modifier
		}
	}
	return "", true
}

func visibilityModifier(word string) (string, bool) {
	switch strings.TrimSpace(word) {
	case "private", "protected", "public":
		return strings.TrimSpace(word), true
	default:
		return "", false
	}
}
