package cmd

import (
	"context"
	"strings"

	"github.com/etnz/komorebi"
	"github.com/etnz/komorebi/renderer"
)

// FlagValues lists the accepted values of the enumerated flags, per command.
var FlagValues = map[string]map[string][]string{
	"add":    {"t": assetTypeNames(), "c": currencyNames()},
	"edit":   {"t": assetTypeNames(), "c": currencyNames()},
	"export": {"o": {"komorebi.html", "komorebi.md", "-"}},
}

func assetTypeNames() []string { return []string{"tw", "us", "cash", "other"} }

func currencyNames() []string {
	var names []string
	for _, c := range komorebi.Currencies {
		names = append(names, string(c))
	}
	return names
}

// PredictIDs returns the short ids of the stored holdings starting with
// prefix. Errors yield no prediction.
func PredictIDs(prefix string) []string {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return nil
	}
	defer a.Close()

	var ids []string
	for _, h := range a.state.Holdings {
		id := renderer.ShortID(h.ID)
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids
}
