package googlebooks

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"bookmeta/src/internal/provider"
)

type fakeDoer struct {
	handler func(req *http.Request) *http.Response
}

func (f fakeDoer) Do(req *http.Request) (*http.Response, error) { return f.handler(req), nil }

func textResp(code int, s string) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(s)), Header: make(http.Header)}
}

const cleanCode = `{"items":[{"selfLink":"https://www.googleapis.com/books/v1/volumes/ttMsCwAAQBAJ","volumeInfo":{
  "title":"Clean Code","authors":["Robert C. Martin"],"publisher":"Prentice Hall","publishedDate":"2008-08-01",
  "description":"A book.","pageCount":431,"categories":["Computers"],"language":"en",
  "industryIdentifiers":[{"type":"ISBN_10","identifier":"0132350882"},{"type":"ISBN_13","identifier":"9780132350884"}],
  "imageLinks":{"thumbnail":"http://books.google.com/books/content?id=ttMsCwAAQBAJ&zoom=1"}}}]}`

func TestSearchIdentifier(t *testing.T) {
	var query string
	p := New()
	p.Configure(map[string]string{"api_key": "k123"})
	p.SetHTTPClient(fakeDoer{handler: func(req *http.Request) *http.Response {
		query = req.URL.RawQuery
		return textResp(200, cleanCode)
	}})
	recs, err := p.SearchIdentifier(context.Background(), "978-0-13-235088-4")
	if err != nil {
		t.Fatalf("SearchIdentifier: %v", err)
	}
	if !strings.Contains(query, "q=isbn%3A9780132350884") || !strings.Contains(query, "key=k123") {
		t.Fatalf("unexpected query %s", query)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
	r := recs[0]
	if r.Title != "Clean Code" || r.ISBN != "9780132350884" || r.Pages == nil || *r.Pages != 431 {
		t.Fatalf("bad mapping: %+v", r)
	}
	if r.PublicationDate == nil || r.PublicationDate.Format("2006-01-02") != "2008-08-01" {
		t.Fatalf("date: %v", r.PublicationDate)
	}
	if r.Additional["publisher"][0] != "Prentice Hall" || r.Additional["language"][0] != "en" {
		t.Fatalf("additional: %v", r.Additional)
	}
	if !strings.HasPrefix(r.Cover, "http://books.google.com/") {
		t.Fatalf("cover: %q", r.Cover)
	}
}

func TestSearchIdentifierNoItems(t *testing.T) {
	p := New()
	p.SetHTTPClient(fakeDoer{handler: func(req *http.Request) *http.Response {
		if strings.Contains(req.URL.RawQuery, "key=") {
			t.Errorf("no api key configured, got %s", req.URL.RawQuery)
		}
		return textResp(200, `{"kind":"books#volumes","totalItems":0}`)
	}})
	recs, err := p.SearchIdentifier(context.Background(), "9780000000000")
	if err != nil || len(recs) != 0 {
		t.Fatalf("expected empty result, got %v %v", recs, err)
	}
}

func TestCriteriaOtherThanISBNIgnored(t *testing.T) {
	p := New()
	p.SetHTTPClient(fakeDoer{handler: func(req *http.Request) *http.Response {
		t.Fatalf("unexpected request %s", req.URL)
		return nil
	}})
	recs, err := provider.Search(context.Background(), p, map[string]string{"title": "Clean Code"})
	if err != nil || recs != nil {
		t.Fatalf("expected nothing, got %v %v", recs, err)
	}
}
