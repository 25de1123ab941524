package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(ctxWithQuery(""))
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("expected page size %d, got %d", DefaultPageSize, p.PageSize)
	}
}

func TestFromContext_ClampsPageSize(t *testing.T) {
	p := FromContext(ctxWithQuery("page=3&page_size=500"))
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.PageSize != MaxPageSize {
		t.Errorf("expected page size clamped to %d, got %d", MaxPageSize, p.PageSize)
	}
}

func TestFromContext_RejectsNonPositive(t *testing.T) {
	p := FromContext(ctxWithQuery("page=-2&page_size=0"))
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Errorf("expected defaults for non-positive params, got %+v", p)
	}
}

func TestBounds_PartitionsCollection(t *testing.T) {
	// Pages must partition the collection: no overlap, no gap, short last page.
	const total = 23
	p := Params{Page: 1, PageSize: 10}

	covered := 0
	prevEnd := 0
	for page := 1; page <= p.TotalPages(total); page++ {
		p.Page = page
		start, end := p.Bounds(total)
		if start != prevEnd {
			t.Fatalf("page %d starts at %d, previous page ended at %d", page, start, prevEnd)
		}
		covered += end - start
		prevEnd = end
	}
	if covered != total {
		t.Errorf("pages cover %d items, want %d", covered, total)
	}
}

func TestBounds_PastEnd(t *testing.T) {
	p := Params{Page: 9, PageSize: 10}
	start, end := p.Bounds(23)
	if start != end {
		t.Errorf("expected empty interval past the end, got [%d, %d)", start, end)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
	}
	for _, tc := range cases {
		p := Params{Page: 1, PageSize: tc.size}
		if got := p.TotalPages(tc.total); got != tc.want {
			t.Errorf("TotalPages(%d) with size %d = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestNewResponse(t *testing.T) {
	p := Params{Page: 2, PageSize: 10}
	resp := NewResponse([]int{1, 2, 3}, 23, p)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", resp.TotalPages)
	}
	if !resp.HasMore {
		t.Error("expected has_more on page 2 of 3")
	}
	p.Page = 3
	resp = NewResponse(nil, 23, p)
	if resp.HasMore {
		t.Error("expected no more pages after the last page")
	}
}
