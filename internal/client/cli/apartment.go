package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/rentdesk/internal/client/models"
	"github.com/dmitrijs2005/rentdesk/internal/common"
	"github.com/dmitrijs2005/rentdesk/internal/validate"
)

const titleWidth = 32

// parseListArgs turns "key=value" arguments of the list command into the
// server-side query and the client-side filter.
func parseListArgs(args []string) (models.ListQuery, models.Filter, error) {
	var (
		q models.ListQuery
		f models.Filter
		v validate.Validator
	)

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			v.Custom(arg, true, "expected key=value")
			continue
		}
		switch strings.ToLower(key) {
		case "category":
			q.Category = models.Category(value)
		case "min_price":
			q.MinPrice = parseFloat(&v, key, value)
		case "max_price":
			q.MaxPrice = parseFloat(&v, key, value)
		case "start":
			q.Start = parseDate(&v, key, value)
		case "end":
			q.End = parseDate(&v, key, value)
		case "page":
			n, err := strconv.Atoi(value)
			v.Custom(key, err != nil, "must be an integer")
			q.Page = n
		case "search":
			f.Search = value
		case "status":
			f.Status = value
		default:
			v.Custom(key, true, "unknown filter")
		}
	}
	return q, f, v.Err()
}

func parseFloat(v *validate.Validator, field, s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	v.Custom(field, err != nil, "must be a number")
	return f
}

func parseDate(v *validate.Validator, field, s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	v.Custom(field, true, "must be a date (YYYY-MM-DD) or RFC 3339 time")
	return time.Time{}
}

// List fetches one page of listings, applies the client-side filter and
// prints a table.
func (a *App) List(ctx context.Context, args []string) error {
	q, f, err := parseListArgs(args)
	if err != nil {
		return err
	}

	page, err := a.apartments.List(ctx, q)
	if err != nil {
		return err
	}

	items := f.Apply(page.Results)
	if len(items) == 0 {
		printlnFn(a.out, "No apartments found")
		return nil
	}

	writeTable(a.out, items)
	printlnFn(a.out, fmt.Sprintf("%d shown, page %d/%d, %d in total",
		len(items), page.CurrentPage, page.TotalPages, page.TotalItems))
	return nil
}

func writeTable(w io.Writer, items []models.Apartment) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATUS\tCITY\tPRICE/H")
	for _, apt := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(apt.ID),
			common.Truncate(apt.Title, titleWidth),
			categoryLabel(apt.Category),
			statusLabel(apt.Status),
			apt.City,
			formatPrice(float64(apt.PricePerHour)),
		)
	}
	tw.Flush()
}

func (a *App) Show(ctx context.Context, id string) error {
	apt, err := a.apartments.Get(ctx, id)
	if err != nil {
		return err
	}

	w := a.out
	fmt.Fprintf(w, "%s\n%s\n", apt.Title, strings.Repeat("=", len([]rune(apt.Title))))
	if apt.Description != "" {
		fmt.Fprintf(w, "%s\n\n", apt.Description)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", apt.ID)
	fmt.Fprintf(tw, "Category\t%s\n", categoryLabel(apt.Category))
	fmt.Fprintf(tw, "Status\t%s\n", statusLabel(apt.Status))
	fmt.Fprintf(tw, "Price\t%s / h\n", formatPrice(float64(apt.PricePerHour)))
	fmt.Fprintf(tw, "Location\t%s\n", location(apt))
	fmt.Fprintf(tw, "Coordinates\t%g, %g\n", apt.Latitude, apt.Longitude)
	if apt.CreatorEmail != "" {
		fmt.Fprintf(tw, "Owner\t%s\n", apt.CreatorEmail)
	}
	fmt.Fprintf(tw, "Main photo\t%s\n", apt.MainPhoto)
	for i, u := range apt.Gallery {
		fmt.Fprintf(tw, "Gallery %d\t%s\n", i+1, u)
	}
	for _, p := range apt.Unavailabilities {
		fmt.Fprintf(tw, "Unavailable\t%s → %s\n",
			p.Start.Local().Format("2006-01-02 15:04"), p.End.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(tw, "Created\t%s\n", formatTime(apt.CreatedAt))
	fmt.Fprintf(tw, "Updated\t%s\n", formatTime(apt.UpdatedAt))
	return tw.Flush()
}

func location(apt models.Apartment) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{apt.City, apt.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func (a *App) Create(ctx context.Context) error {
	in, err := a.promptApartment(models.ApartmentInput{})
	if err != nil {
		return err
	}

	res, err := a.apartments.Create(ctx, in)
	if err != nil {
		return err
	}

	printlnFn(a.out, "Created apartment", res.ID)
	return nil
}

// Edit loads the listing, pre-fills the form with its values and saves the
// result.
func (a *App) Edit(ctx context.Context, id string) error {
	apt, err := a.apartments.Get(ctx, id)
	if err != nil {
		return err
	}

	in, err := a.promptApartment(models.InputFromApartment(apt))
	if err != nil {
		return err
	}

	if err := a.apartments.Update(ctx, id, in); err != nil {
		return err
	}

	printlnFn(a.out, "Saved apartment", id)
	return nil
}

// Set patches single fields: set <id> title=Villa Neuve latitude=4.05.
// A word without '=' continues the previous value.
func (a *App) Set(ctx context.Context, id string, args []string) error {
	fields, err := parsePatchArgs(args)
	if err != nil {
		return err
	}

	if err := a.apartments.Patch(ctx, id, fields); err != nil {
		return err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	printlnFn(a.out, fmt.Sprintf("Updated %s of apartment %s", strings.Join(keys, ", "), id))
	return nil
}

func parsePatchArgs(args []string) (map[string]any, error) {
	var (
		v     validate.Validator
		pairs [][2]string
	)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		switch {
		case ok && key != "":
			pairs = append(pairs, [2]string{strings.ToLower(key), value})
		case len(pairs) > 0:
			pairs[len(pairs)-1][1] += " " + arg
		default:
			v.Custom(arg, true, "expected field=value")
		}
	}

	fields := make(map[string]any, len(pairs))
	for _, p := range pairs {
		switch p[0] {
		case "latitude", "longitude":
			fields[p[0]] = parseFloat(&v, p[0], p[1])
		default:
			fields[p[0]] = p[1]
		}
	}
	if v.HasErrors() {
		return nil, v.Err()
	}
	return fields, nil
}

func (a *App) promptApartment(cur models.ApartmentInput) (models.ApartmentInput, error) {
	var (
		in  = cur
		v   validate.Validator
		err error
	)

	text := func(prompt, current string) string {
		if err != nil {
			return current
		}
		var s string
		s, err = GetWithDefault(a.reader, prompt, current, a.out)
		return s
	}
	num := func(field, prompt string, current float64) float64 {
		s := text(prompt, formatNumber(current))
		return parseFloat(&v, field, s)
	}

	in.Title = text("Title", cur.Title)
	in.Description = text("Description", cur.Description)
	in.Category = models.Category(text(
		"Category ("+strings.Join(categoryNames(), ", ")+")", string(cur.Category)))
	in.City = text("City", cur.City)
	in.Country = text("Country", cur.Country)
	in.PricePerHour = num("price_per_hour", "Price per hour (FCFA)", cur.PricePerHour)
	in.Latitude = num("latitude", "Latitude", cur.Latitude)
	in.Longitude = num("longitude", "Longitude", cur.Longitude)
	in.MainPhoto = text("Main photo URL", cur.MainPhoto)
	if err != nil {
		return models.ApartmentInput{}, err
	}

	if len(cur.Gallery) > 0 {
		printlnFn(a.out, "Current gallery:", strings.Join(cur.Gallery, " "))
	}
	gallery, err := GetLines(a.reader,
		fmt.Sprintf("Gallery image URLs, one per line (at most %d, empty keeps current)", models.MaxGalleryImages), a.out)
	if err != nil {
		return models.ApartmentInput{}, err
	}
	if len(gallery) > 0 {
		in.Gallery = gallery
	}

	if err := v.Err(); err != nil {
		return models.ApartmentInput{}, err
	}
	return in, nil
}

func formatNumber(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func categoryNames() []string {
	out := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		out[i] = string(c)
	}
	return out
}

// Delete asks for confirmation before removing the listing.
func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete apartment %s? Type 'yes' to confirm", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		printlnFn(a.out, "Canceled")
		return nil
	}

	if err := a.apartments.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn(a.out, "Deleted apartment", id)
	return nil
}

// Upload sends a local image and prints the URL to use as main photo or
// gallery entry.
func (a *App) Upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	printlnFn(a.out, fmt.Sprintf("Uploading %s (%s)...", name, humanize.Bytes(uint64(info.Size()))))

	res, err := a.apartments.UploadImage(ctx, name, f)
	if err != nil {
		return err
	}
	printlnFn(a.out, "Uploaded:", res.URL)
	return nil
}

func (a *App) Dashboard(ctx context.Context) error {
	stats, err := a.apartments.Dashboard(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Total\t%d\t\n", stats.Total)
	for _, row := range []struct {
		label string
		n     int
	}{
		{statusLabel(models.StatusDisponible), stats.Available},
		{statusLabel(models.StatusOccupe), stats.Occupied},
		{statusLabel(models.StatusMaintenance), stats.Maintenance},
		{statusLabel(models.StatusInactif), stats.Inactive},
	} {
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", row.label, row.n, formatShare(stats.Share(row.n)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(stats.Recent) > 0 {
		fmt.Fprintln(a.out, "\nRecent:")
		writeTable(a.out, stats.Recent)
	}
	return nil
}
