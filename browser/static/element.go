package static

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/filmscout/filmscout/browser"
	"github.com/samber/mo"
)

// Element is a single node of a static document.
type Element struct {
	page *Page
	sel  *goquery.Selection
}

func first(p *Page, sel *goquery.Selection) (browser.Element, error) {
	if sel.Length() == 0 {
		return nil, browser.ErrElementNotFound
	}
	return &Element{page: p, sel: sel.First()}, nil
}

func all(p *Page, sel *goquery.Selection) []browser.Element {
	elements := make([]browser.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &Element{page: p, sel: s})
	})
	return elements
}

func (e *Element) Text() (string, error) {
	if err := e.page.check(); err != nil {
		return "", err
	}
	return e.sel.Text(), nil
}

func (e *Element) Attribute(name string) (mo.Option[string], error) {
	if err := e.page.check(); err != nil {
		return mo.None[string](), err
	}

	value, ok := e.sel.Attr(name)
	if !ok {
		return mo.None[string](), nil
	}

	if name == "href" || name == "src" {
		if resolved, err := e.page.resolve(value); err == nil {
			value = resolved
		}
	}
	return mo.Some(value), nil
}

func (e *Element) Element(selector string) (browser.Element, error) {
	if err := e.page.check(); err != nil {
		return nil, err
	}
	return first(e.page, e.sel.Find(selector))
}

func (e *Element) Elements(selector string) ([]browser.Element, error) {
	if err := e.page.check(); err != nil {
		return nil, err
	}
	return all(e.page, e.sel.Find(selector)), nil
}

func (e *Element) Parent() (browser.Element, error) {
	if err := e.page.check(); err != nil {
		return nil, err
	}
	return first(e.page, e.sel.Parent())
}

// Click follows the enclosing anchor or submits the enclosing form for submit buttons.
func (e *Element) Click() error {
	if err := e.page.check(); err != nil {
		return err
	}

	anchor := e.sel.Closest("a[href]")
	if anchor.Length() > 0 {
		href, _ := anchor.Attr("href")
		return e.page.Navigate(href)
	}

	if goquery.NodeName(e.sel) == "button" || e.sel.Is("input[type='submit']") {
		kind, _ := e.sel.Attr("type")
		if kind == "" || kind == "submit" {
			return e.submit()
		}
	}

	return nil
}

// Input replaces the field value.
func (e *Element) Input(text string) error {
	if err := e.page.check(); err != nil {
		return err
	}
	e.sel.SetAttr("value", text)
	return nil
}

// Submit sends the enclosing form.
func (e *Element) Submit() error {
	if err := e.page.check(); err != nil {
		return err
	}
	return e.submit()
}

func (e *Element) submit() error {
	form := e.sel.Closest("form")
	if form.Length() == 0 {
		return errNoForm
	}

	action, _ := form.Attr("action")
	target, err := e.page.resolve(action)
	if err != nil {
		return err
	}

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("parse form action: %w", err)
	}

	query := u.Query()
	form.Find("input[name], textarea[name], select[name]").Each(func(_ int, field *goquery.Selection) {
		name, _ := field.Attr("name")
		value, _ := field.Attr("value")
		query.Set(name, value)
	})
	u.RawQuery = query.Encode()

	return e.page.load(u.String())
}
