package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/maitred-run/maitred/internal/engine"
	"github.com/maitred-run/maitred/internal/entity"
)

// cleanName normalizes user-entered names to NFC so the same name typed
// with different composition renders and sorts identically.
func cleanName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// sortByName orders strings with locale-aware collation instead of raw
// byte order, so accented names land where a reader expects them.
func sortByName(names []string) {
	c := collate.New(language.Und, collate.Loose)
	sort.SliceStable(names, func(i, j int) bool {
		return c.CompareString(names[i], names[j]) < 0
	})
}

func renderTables(tables []entity.Table) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tCAPACITY\tSTATUS")
	for _, t := range tables {
		fmt.Fprintf(w, "%s\t%d\t%s\n", t.ID, t.Capacity, t.Status)
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func renderReservation(r entity.Reservation) string {
	return fmt.Sprintf("reservation %s: table=%s party=%d start=%s status=%s",
		r.ID, r.TableID, r.PartySize, r.StartTime.Format(time.RFC3339), r.Status)
}

func renderOrder(o entity.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "order %s: table=%s status=%s\n", o.ID, o.TableID, o.Status)
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DISH\tQTY\tPRICE\tTOTAL")
	for _, it := range o.Items {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", it.DishRef, it.Quantity, renderCents(it.Price), renderCents(it.Total()))
	}
	fmt.Fprintf(w, "\t\t\t%s\n", renderCents(o.Total()))
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func renderCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func renderUtilization(rep engine.UtilizationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "floor at %s\n", rep.At.Format(time.RFC3339))
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "tables\t%d\n", rep.Tables)
	fmt.Fprintf(w, "free\t%d\n", rep.Free)
	fmt.Fprintf(w, "occupied\t%d\n", rep.Occupied)
	fmt.Fprintf(w, "reserved\t%d\n", rep.Reserved)
	fmt.Fprintf(w, "out of service\t%d\n", rep.OutOfService)
	fmt.Fprintf(w, "occupancy\t%.0f%%\n", rep.Occupancy*100)
	fmt.Fprintf(w, "booked reservations\t%d\n", rep.BookedReservations)
	fmt.Fprintf(w, "starting within the hour\t%d\n", rep.UpcomingHour)
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
