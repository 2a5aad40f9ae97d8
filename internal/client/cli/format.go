package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/dmitrijs2005/rentdesk/internal/client/client"
	"github.com/dmitrijs2005/rentdesk/internal/client/models"
	"github.com/dmitrijs2005/rentdesk/internal/common"
	"github.com/dmitrijs2005/rentdesk/internal/validate"
)

// Prices are in CFA francs, which have no minor unit, grouped the French way.
var (
	frPrinter = message.NewPrinter(language.French)
	frTitle   = cases.Title(language.French)
)

func formatPrice(p float64) string {
	return frPrinter.Sprintf("%v FCFA", number.Decimal(p, number.MaxFractionDigits(0)))
}

func formatShare(pct float64) string {
	return frPrinter.Sprintf("%v %%", number.Decimal(pct, number.MaxFractionDigits(0)))
}

var statusLabels = map[models.Status]string{
	models.StatusDisponible:   "Disponible",
	models.StatusOccupe:       "Occupé",
	models.StatusMaintenance:  "Maintenance",
	models.StatusInactif:      "Inactif",
	models.StatusIndisponible: "Indisponible",
	models.StatusEnCours:      "En cours",
}

func statusLabel(s models.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	if s == "" {
		return "-"
	}
	return string(s)
}

func categoryLabel(c models.Category) string {
	if c == "" {
		return "-"
	}
	return frTitle.String(string(c))
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format("2006-01-02 15:04"), humanize.Time(*t))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// describeError turns a command error into the line shown to the user.
func describeError(err error) string {
	if errors.Is(err, client.ErrInvalidResponse) {
		return "Unexpected response from server"
	}

	var verr *validate.Error
	if errors.As(err, &verr) {
		lines := make([]string, 0, len(verr.Fields)+1)
		lines = append(lines, "Invalid input:")
		for _, f := range verr.Fields {
			lines = append(lines, fmt.Sprintf("  - %s: %s", f.Field, f.Message))
		}
		return strings.Join(lines, "\n")
	}

	var apiErr *client.APIError
	switch {
	case errors.Is(err, errUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, please try again later"
	case errors.Is(err, client.ErrUnauthorized) && errors.As(err, &apiErr):
		return "Not authorized: " + apiErr.Message
	case errors.Is(err, client.ErrNotFound):
		return "Not found"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Request failed (%d): %s", apiErr.StatusCode, apiErr.Message)
	case errors.Is(err, common.ErrorNotAuthenticated):
		return "Please login first"
	}
	return "Error: " + err.Error()
}
