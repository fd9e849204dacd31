package types

// Class names shared with the externally rendered widgets. These have to
// match the markup bit for bit.
const (
	ClassDateRangeFilter    = "date-range-filter"
	ClassCloseDate          = "btn-close-date"
	ClassDateReset          = "reset"
	ClassSearchBoxReset     = "ais-SearchBox-reset"
	ClassRefinementDelete   = "ais-CurrentRefinements-delete"
	ClassOpen               = "open"
	ClassDateRangeWrapper   = "rdrDateRangeWrapper"
	ClassDateInput          = "rdrDateInput"
	ClassMonthAndYear       = "rdrMonthAndYearWrapper"
	ClassMonths             = "rdrMonths"
	ClassMonthsVertical     = "rdrMonthsVertical"
	ClassDefinedRanges      = "rdrDefinedRangesWrapper"
	ClassPaginationList     = "ais-Pagination-list"
	ClassPaginationItem     = "ais-Pagination-item"
	ClassPaginationLink     = "ais-Pagination-link"
	ClassPaginationDisabled = "ais-Pagination-item--disabled"
	ClassPaginationPage     = "ais-Pagination-item--page"
	ClassPaginationPrevious = "ais-Pagination-item--previousPage"
	ClassPaginationNext     = "ais-Pagination-item--nextPage"
)

// Selectors built from the class contract.
const (
	SelectorDateRangeFilter = "." + ClassDateRangeFilter
	SelectorCloseDate       = "." + ClassDateRangeWrapper + " ." + ClassCloseDate
	SelectorDateInputs      = "." + ClassDateInput + " input"
	SelectorMonthAndYear    = "." + ClassMonthAndYear
	SelectorMonthsVertical  = "." + ClassMonths + "." + ClassMonthsVertical
	SelectorDefinedRanges   = "." + ClassDefinedRanges
	SelectorDateReset       = "." + ClassDateRangeFilter + " ." + ClassDateReset
	SelectorSearchBoxReset  = "." + ClassSearchBoxReset
	SelectorRefinementChip  = "." + ClassRefinementDelete
	SelectorResultsRoot     = "#root"
)
