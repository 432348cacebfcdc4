package listutil

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name        string
		query       url.Values
		wantPage    int
		wantPerPage int
	}{
		{"defaults", url.Values{}, 1, DefaultPerPage},
		{"valid", url.Values{"page": {"3"}, "per_page": {"12"}}, 3, 12},
		{"per_page outside choices", url.Values{"per_page": {"50"}}, 1, DefaultPerPage},
		{"negative page", url.Values{"page": {"-1"}}, 1, DefaultPerPage},
		{"garbage", url.Values{"page": {"two"}, "per_page": {"x"}}, 1, DefaultPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePageParams(tt.query)
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("got page=%d per_page=%d, want %d/%d", p.Page, p.PerPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
		wantPrev, wantNext   bool
	}{
		{"empty set has one page", 1, 9, 0, 1, 1, false, false},
		{"exact fit", 1, 9, 9, 1, 1, false, false},
		{"middle page", 2, 9, 25, 2, 3, true, true},
		{"page past the end is clamped", 7, 9, 25, 3, 3, true, false},
		{"zero per page uses default", 1, 0, 10, 1, 2, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages {
				t.Errorf("got page=%d pages=%d, want %d/%d", info.Page, info.TotalPages, tt.wantPage, tt.wantPages)
			}
			if info.HasPrev() != tt.wantPrev || info.HasNext() != tt.wantNext {
				t.Errorf("HasPrev=%v HasNext=%v, want %v/%v", info.HasPrev(), info.HasNext(), tt.wantPrev, tt.wantNext)
			}
			if info.ShowPagination() != (tt.wantPages > 1) {
				t.Errorf("ShowPagination = %v with %d pages", info.ShowPagination(), tt.wantPages)
			}
		})
	}
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		page, pages int
		want        []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{6, 10, []int{4, 5, 6, 7, 8}},
		{10, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		info := PageInfo{Page: tt.page, PerPage: 9, TotalPages: tt.pages, Total: tt.pages * 9}
		if got := info.PageNumbers(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("page %d of %d: got %v, want %v", tt.page, tt.pages, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	if got := Slice(items, NewPageInfo(1, 2, len(items))); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("page 1 = %v", got)
	}
	if got := Slice(items, NewPageInfo(3, 2, len(items))); !reflect.DeepEqual(got, []string{"e"}) {
		t.Errorf("last page = %v", got)
	}
	if got := Slice([]string(nil), NewPageInfo(1, 9, 0)); got != nil {
		t.Errorf("empty = %v, want nil", got)
	}
}
