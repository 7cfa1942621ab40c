package domain

// TableSearch is a search box value, global or per column.
type TableSearch struct {
	Value string `json:"value"`
	Regex bool   `json:"regex"`
}

// TableColumn describes one grid column. Data is the (possibly dotted)
// document field the column shows.
type TableColumn struct {
	Data       string      `json:"data"`
	Name       string      `json:"name"`
	Searchable bool        `json:"searchable"`
	Orderable  bool        `json:"orderable"`
	Search     TableSearch `json:"search"`
}

// TableOrder sorts by the column at index Column; Dir is "asc" or "desc".
type TableOrder struct {
	Column int    `json:"column"`
	Dir    string `json:"dir"`
}

// TableRequest is a server-side grid read: global and per-column search,
// ordering, and a page window. Length -1 requests every row.
type TableRequest struct {
	Draw    any           `json:"draw"`
	Start   int64         `json:"start"`
	Length  int64         `json:"length"`
	Search  TableSearch   `json:"search"`
	Order   []TableOrder  `json:"order"`
	Columns []TableColumn `json:"columns"`
}

// TableResponse carries one page of rows and the counts the grid pages with.
type TableResponse struct {
	Draw            int64            `json:"draw"`
	RecordsTotal    int64            `json:"recordsTotal"`
	RecordsFiltered int64            `json:"recordsFiltered"`
	Data            []map[string]any `json:"data"`
	Error           string           `json:"error,omitempty"`
}
