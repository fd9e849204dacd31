package session

// The page skeleton. Widgets are rendered into the empty containers, the
// class names are the ones the filter layer and the stylesheet expect.
const pageMarkup = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"/><title>Search</title></head>
<body>
<div class="app-container">
  <div class="search-panel">
    <h3 class="h3 search-input-label">Search by keyword</h3>
    <div class="search-header row">
      <div class="search-input col-12 col-lg-8">
        <div class="ais-SearchBox search-box">
          <form class="ais-SearchBox-form form search-form" role="search" action="/" method="get">
            <input class="ais-SearchBox-input form-text form-control" type="search" name="query" placeholder="Keyword" value=""/>
            <button class="ais-SearchBox-submit form-submit" type="submit" title="Search"><span>Submit</span></button>
          </form>
        </div>
        <div class="ais-CurrentRefinements"><ul class="ais-CurrentRefinements-list"></ul></div>
      </div>
      <div class="search-panel__sort-filters col-12 col-md-6 col-lg-3">
        <label class="sort-by-label" for="sort-by">Sort by</label>
        <select id="sort-by" class="ais-SortBy-select sort-by-select form-select">
          <option class="ais-SortBy-option" value="default">Relevance</option>
          <option class="ais-SortBy-option" value="_date_asc">Oldest</option>
          <option class="ais-SortBy-option" value="_date_desc">Newest</option>
        </select>
      </div>
      <div class="search-panel__results-switcher col-12 col-md-6 col-lg-1">
        <div class="result-switcher"><span class="grid" data-view="grid" title="Grid"></span><span class="table" data-view="table" title="List"></span></div>
      </div>
    </div>
    <div class="search-panel-wrapper row">
      <div class="search-panel__filters col-lg-3 col-md-4 col-sm-12 col-12">
        <div class="block-facet--checkbox">
          <div class="facets-widget-wrapper facets-widget-checkbox">
            <h3 class="h3 facet-title">Tags</h3>
            <ul class="facet-list"></ul>
          </div>
        </div>
        <div class="date-range">
          <h3 class="h3 facet-title">Publish Date</h3>
          <div class="date-range-filter"></div>
        </div>
        <button class="clear btn btn-outline-secondary" type="button" aria-label="clear filters">Clear Filters</button>
      </div>
      <div id="root" class="search-panel__hits col-lg-9 col-md-8 col-sm-12 col-12">
        <span class="current-stats"></span>
        <div class="no-results"></div>
        <div class="ais-Hits row"><ol class="ais-Hits-list row"></ol></div>
        <div class="ais-Pagination"></div>
      </div>
    </div>
  </div>
</div>
</body>
</html>`

const (
	selectorSearchForm   = ".ais-SearchBox-form"
	selectorSearchInput  = ".ais-SearchBox-input"
	selectorChipList     = ".ais-CurrentRefinements-list"
	selectorFacetList    = ".facet-list"
	selectorFacetEmpty   = ".no-results-message"
	selectorClear        = "button.clear"
	selectorSortSelect   = ".sort-by-select"
	selectorViewSwitch   = ".result-switcher [data-view]"
	selectorStats        = ".current-stats"
	selectorNoResults    = ".no-results"
	selectorNoResultsBtn = ".no-results-btn"
	selectorHits         = ".ais-Hits"
	selectorHitList      = ".ais-Hits-list"
	selectorPagination   = ".ais-Pagination"
)

const (
	ViewGrid  = "grid"
	ViewTable = "table"
)
