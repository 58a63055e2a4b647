package server

import (
	"fmt"
	"html/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"amount": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"timestamp": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
}
