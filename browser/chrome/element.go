package chrome

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/filmscout/filmscout/browser"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// defaultActionTimeout bounds interactions when the launch options leave it unset.
const defaultActionTimeout = 15 * time.Second

// Element wraps a rod element.
type Element struct {
	el *rod.Element
	// timeout bounds Click, Input and Submit.
	timeout time.Duration
}

func wrap(els rod.Elements, timeout time.Duration) []browser.Element {
	return lo.Map(els, func(el *rod.Element, _ int) browser.Element {
		return &Element{el: el, timeout: timeout}
	})
}

// timedOut maps an exceeded deadline onto the shared sentinel.
func timedOut(err error, what string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", browser.ErrTimeout, what)
	}
	return err
}

// bounded returns a copy of the element whose calls fail once the action timeout passes.
func (e *Element) bounded() *rod.Element {
	timeout := e.timeout
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	return e.el.Timeout(timeout)
}

func (e *Element) Text() (string, error) {
	return e.el.Text()
}

// Attribute reads href and src as DOM properties so they come back absolute.
func (e *Element) Attribute(name string) (mo.Option[string], error) {
	if name == "href" || name == "src" {
		prop, err := e.el.Property(name)
		if err != nil {
			return mo.None[string](), err
		}

		if s := prop.Str(); s != "" {
			return mo.Some(s), nil
		}
	}

	value, err := e.el.Attribute(name)
	if err != nil {
		return mo.None[string](), err
	}
	if value == nil {
		return mo.None[string](), nil
	}
	return mo.Some(*value), nil
}

func (e *Element) Element(selector string) (browser.Element, error) {
	el, err := e.el.Element(selector)
	if err != nil {
		return nil, notFound(err)
	}
	return &Element{el: el, timeout: e.timeout}, nil
}

func (e *Element) Elements(selector string) ([]browser.Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, notFound(err)
	}
	return wrap(els, e.timeout), nil
}

func (e *Element) Parent() (browser.Element, error) {
	el, err := e.el.Parent()
	if err != nil {
		return nil, notFound(err)
	}
	return &Element{el: el, timeout: e.timeout}, nil
}

func (e *Element) Click() error {
	el := e.bounded()
	defer el.CancelTimeout()
	return timedOut(el.Click(proto.InputMouseButtonLeft, 1), "click")
}

func (e *Element) Input(text string) error {
	el := e.bounded()
	defer el.CancelTimeout()

	if err := el.SelectAllText(); err != nil {
		return timedOut(err, "select text")
	}
	return timedOut(el.Input(text), "input")
}

func (e *Element) Submit() error {
	el := e.bounded()
	defer el.CancelTimeout()
	return timedOut(el.Type(input.Enter), "submit")
}
