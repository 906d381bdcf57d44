package export

import "github.com/alexanderramin/flowboard/internal/domain"

// Summary counts what an export with a given configuration would produce.
type Summary struct {
	Nodes       int `json:"nodes"`
	References  int `json:"references"`
	BoardCards  int `json:"boardCards"`
	DynamicList int `json:"dynamicList"`
	Tasks       int `json:"tasks"`
	Connections int `json:"connections"`
}

// Preview computes export counts without generating ids or a board. It
// does not validate cfg.
func Preview(flow *domain.Flow, cfg *Config) Summary {
	tpl := flow.Template()
	if tpl == nil {
		return Summary{}
	}
	f := NewFilter(cfg)
	var sum Summary
	for _, sel := range Collect(flow.Data, tpl.Depth(), f) {
		sum.Nodes++
		hasRef := cfg.ExportReference && sel.Depth == cfg.ReferenceLevel
		if hasRef {
			sum.References++
		}
		cls := Classify(sel.Node, sel.Depth, cfg, f)
		switch {
		case cfg.ExportDynamicList && cls.Column != domain.ColumnNone:
			sum.BoardCards++
		case !cfg.ExportDynamicList && !hasRef:
			sum.BoardCards++
		}
		if !cfg.ExportDynamicList {
			continue
		}
		switch cls.Type {
		case domain.DynamicTask:
			sum.Tasks++
		case domain.DynamicConnection:
			sum.Connections++
		}
	}
	sum.DynamicList = sum.Tasks + sum.Connections
	return sum
}
