package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestParseParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/grades?page=3&limit=10&search=grade", nil)
	params := ParseParams(req)

	if params.Page != 3 || params.Limit != 10 || params.Search != "grade" {
		t.Errorf("Unexpected params: %+v", params)
	}
}

func TestParseParams_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/grades", nil)
	params := ParseParams(req)

	if params.Page != DefaultPage || params.Limit != DefaultLimit {
		t.Errorf("Expected defaults, got %+v", params)
	}
}

func TestParseParams_ClampsLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "/grades?limit=5000", nil)
	params := ParseParams(req)

	if params.Limit != MaxLimit {
		t.Errorf("Expected limit clamped to %d, got %d", MaxLimit, params.Limit)
	}
}

func TestParseParams_IgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest("GET", "/grades?page=abc&limit=-5", nil)
	params := ParseParams(req)

	if params.Page != DefaultPage || params.Limit != DefaultLimit {
		t.Errorf("Expected defaults for invalid values, got %+v", params)
	}
}

func TestCalculateOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 20}
	if got := p.CalculateOffset(); got != 40 {
		t.Errorf("Expected offset 40, got %d", got)
	}
}

func TestCalculateMeta(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	meta := p.CalculateMeta(25)

	if meta.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", meta.TotalPages)
	}
	if !meta.HasNext || !meta.HasPrevious {
		t.Errorf("Expected both neighbors, got %+v", meta)
	}
}

func TestCalculateMeta_Empty(t *testing.T) {
	p := Params{Page: 1, Limit: 10}
	meta := p.CalculateMeta(0)

	if meta.TotalPages != 1 {
		t.Errorf("Expected 1 page for empty result, got %d", meta.TotalPages)
	}
	if meta.HasNext || meta.HasPrevious {
		t.Errorf("Expected no neighbors, got %+v", meta)
	}
}
