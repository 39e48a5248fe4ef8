package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"market-quick-price/internal/engine"
)

// writeResult prints a result the way the result panel shows it.
func writeResult(w io.Writer, r engine.MarketResult) {
	fmt.Fprintf(w, "%s @ %s\n", r.ItemName, r.World)
	fmt.Fprintf(w, "Lowest: %s gil\n", humanize.Comma(r.Lowest))
	if r.LastUploadMs > 0 {
		fmt.Fprintf(w, "Last updated: %s\n", humanize.Time(time.UnixMilli(r.LastUploadMs)))
	}
	fmt.Fprintf(w, "Listings: %s (%s items)\n", humanize.Comma(int64(r.TotalListings)), humanize.Comma(int64(r.TotalListedQuantity)))

	if s := r.LatestSale; s != nil {
		fmt.Fprintf(w, "Latest sale: %s @ %s gil (%s)\n",
			humanize.Comma(int64(s.Quantity)), humanize.Comma(s.PricePerUnit), humanize.Time(time.Unix(s.Timestamp, 0)))
	} else {
		fmt.Fprintln(w, "Latest sale: No data")
	}

	if r.DaySalesQuantity > 0 {
		word := "sales"
		if r.DaySalesCount == 1 {
			word = "sale"
		}
		fmt.Fprintf(w, "Sold (24h): %s items across %s %s\n",
			humanize.Comma(int64(r.DaySalesQuantity)), humanize.Comma(int64(r.DaySalesCount)), word)
	} else {
		fmt.Fprintln(w, "Sold (24h): No recorded sales")
	}
}
