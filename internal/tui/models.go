package tui

type View int

const (
	ViewResults View = iota
	ViewSearch
	ViewDetail
	ViewFilter
)

func (v View) String() string {
	switch v {
	case ViewResults:
		return "results"
	case ViewSearch:
		return "search"
	case ViewDetail:
		return "detail"
	case ViewFilter:
		return "filter"
	default:
		return "unknown"
	}
}
