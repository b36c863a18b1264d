package locator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"a3dup/internal/model"
)

const userAgent = "a3dup/1.0"

// StatusError indicates the vendor served a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// ParseError indicates the page carries no recognizable download link; the
// site layout likely changed and needs a manual look.
type ParseError struct {
	URL string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no firmware download link found on %s", e.URL)
}

// Locate fetches the vendor page and returns the firmware release it
// currently advertises.
func Locate(ctx context.Context, client *http.Client, pageURL string) (model.Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return model.Release{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return model.Release{}, fmt.Errorf("fetch firmware page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Release{}, &StatusError{URL: pageURL, Code: resp.StatusCode}
	}

	href, ok, err := findDownloadHref(resp.Body)
	if err != nil {
		return model.Release{}, fmt.Errorf("read firmware page: %w", err)
	}
	if !ok {
		return model.Release{}, &ParseError{URL: pageURL}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return model.Release{}, fmt.Errorf("parse page URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return model.Release{}, &ParseError{URL: pageURL}
	}
	abs := base.ResolveReference(ref)

	return model.Release{
		URL:      abs.String(),
		Filename: path.Base(abs.Path),
	}, nil
}

type anchor struct {
	href string
	text string
}

// findDownloadHref picks the firmware link out of the page. Preferred match
// is an href whose basename follows the firmware naming convention; the
// vendor's "Download [NN.NMB]" link text is the fallback so a renamed
// download path still resolves.
func findDownloadHref(r io.Reader) (string, bool, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", false, err
	}

	var anchors []anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" && a.Val != "" {
					anchors = append(anchors, anchor{href: a.Val, text: nodeText(n)})
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, a := range anchors {
		if u, err := url.Parse(a.href); err == nil && model.IsFirmwareFile(path.Base(u.Path)) {
			return a.href, true, nil
		}
	}
	for _, a := range anchors {
		if strings.Contains(a.text, "Download [") && strings.Contains(a.text, "MB") {
			return a.href, true, nil
		}
	}
	return "", false, nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
