package loc

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

type fakeDoer struct {
	handler func(req *http.Request) *http.Response
}

func (f fakeDoer) Do(req *http.Request) (*http.Response, error) { return f.handler(req), nil }

func textResp(code int, s string) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(s)), Header: make(http.Header)}
}

const sru = `<zs:searchRetrieveResponse xmlns:zs="http://www.loc.gov/zing/srw/"><zs:records><zs:record><zs:recordData>
<mods xmlns="http://www.loc.gov/mods/v3"><titleInfo><title>Dune</title></titleInfo>
<name><namePart>Herbert, Frank.</namePart></name><identifier type="isbn">0441013597</identifier></mods>
</zs:recordData></zs:record></zs:records></zs:searchRetrieveResponse>`

func TestSearch(t *testing.T) {
	var got *http.Request
	p := New()
	p.SetHTTPClient(fakeDoer{handler: func(req *http.Request) *http.Response {
		got = req
		return textResp(200, sru)
	}})
	recs, err := p.Search(context.Background(), map[string]string{"title": "Dune", "publisher": "Ace Books", "author": "ignored"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	q := got.URL.Query()
	if q.Get("operation") != "searchRetrieve" || q.Get("recordSchema") != "mods" || q.Get("maximumRecords") != "5" {
		t.Fatalf("unexpected params %v", q)
	}
	if want := `dc.publisher="Ace Books" and dc.title=Dune`; q.Get("query") != want {
		t.Fatalf("query: got %s want %s", q.Get("query"), want)
	}
	if len(recs) != 1 || recs[0].Title != "Dune" || recs[0].ISBN != "0441013597" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestSearchNothingIndexed(t *testing.T) {
	p := New()
	p.SetHTTPClient(fakeDoer{handler: func(req *http.Request) *http.Response {
		t.Fatalf("unexpected request %s", req.URL)
		return nil
	}})
	if recs, err := p.Search(context.Background(), map[string]string{"author": "Herbert"}); err != nil || recs != nil {
		t.Fatalf("expected nothing, got %v %v", recs, err)
	}
}

func TestSearchMalformed(t *testing.T) {
	p := New()
	p.SetHTTPClient(fakeDoer{handler: func(req *http.Request) *http.Response {
		return textResp(200, "")
	}})
	recs, err := p.Search(context.Background(), map[string]string{"isbn": "0441013597"})
	if err != nil || len(recs) != 0 {
		t.Fatalf("expected empty result, got %v %v", recs, err)
	}
}

func TestSearchStatusError(t *testing.T) {
	p := New()
	p.SetHTTPClient(fakeDoer{handler: func(req *http.Request) *http.Response {
		return textResp(500, "boom")
	}})
	if _, err := p.Search(context.Background(), map[string]string{"isbn": "0441013597"}); err == nil || !strings.HasPrefix(err.Error(), "loc: http 500") {
		t.Fatalf("expected status error, got %v", err)
	}
}
