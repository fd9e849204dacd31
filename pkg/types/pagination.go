package types

// PaginationWindow is the bounded run of page indices shown around the
// current page. Pages is strictly increasing and contains CurrentPage when
// it is not empty.
type PaginationWindow struct {
	Pages       []int `json:"pages"`
	CurrentPage int   `json:"currentPage"`
	FirstPage   int   `json:"firstPage"`
	LastPage    int   `json:"lastPage"`
}

// PaginationState is what the results collaborator exposes for pagination.
type PaginationState struct {
	Pages             []int `json:"pages"`
	CurrentRefinement int   `json:"currentRefinement"`
	NbPages           int   `json:"nbPages"`
	IsFirstPage       bool  `json:"isFirstPage"`
	IsLastPage        bool  `json:"isLastPage"`
}
