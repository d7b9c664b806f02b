package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dukerupert/provisions/internal/grocery"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newItemsCmd(opts *options) *cobra.Command {
	var hotelFlag, date, sectionFlag, status, sortBy string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the items of one hotel, date and section",
		RunE: func(cmd *cobra.Command, args []string) error {
			hotel, err := model.ParseHotel(hotelFlag)
			if err != nil {
				return err
			}
			section, err := model.ParseSection(sectionFlag)
			if err != nil {
				return err
			}
			if _, err := model.ParseDate(date); err != nil {
				return err
			}

			docs, db, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			all := docs.GetItems(hotel, date, section)
			items := grocery.FilterItems(all, "", status)
			if sortBy != "" {
				items = grocery.SortItems(items, sortBy, "asc")
			}

			fmt.Fprintf(opts.out, "%s %s %s\n", hotel, date, section.DisplayName())
			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DONE\tNAME\tQTY\tUNIT\tBUY\tSELL")
			for _, it := range items {
				done := " "
				if it.IsDone {
					done = "x"
				}
				fmt.Fprintf(tw, "[%s]\t%s\t%s\t%s\t%s\t%s\n", done, it.Name,
					humanize.Ftoa(it.Quantity.Float()), it.Unit,
					humanize.Commaf(it.BuyTotal()), humanize.Commaf(it.SellTotal()))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			stats := grocery.CalculateStats(all)
			fmt.Fprintf(opts.out, "%d/%d done (%d%%), buy %s, sell %s, profit %s\n",
				stats.CompletedItems, stats.TotalItems, stats.CompletionRate,
				humanize.Commaf(stats.TotalBuyAmount), humanize.Commaf(stats.TotalSellAmount),
				humanize.Commaf(stats.Profit))
			return nil
		},
	}
	cmd.Flags().StringVar(&hotelFlag, "hotel", "", "hotel code, e.g. 36LS (required)")
	cmd.Flags().StringVar(&date, "date", "", "date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&sectionFlag, "section", "", "section key: thit, rau, dokho, hoaqua (required)")
	cmd.Flags().StringVar(&status, "status", grocery.StatusAll, "all, pending or done")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort by name, buyTotal, sellTotal, date or status")
	_ = cmd.MarkFlagRequired("hotel")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("section")
	return cmd
}

func newPoolCmd(opts *options) *cobra.Command {
	pool := &cobra.Command{Use: "pool", Short: "Item template operations"}

	var sectionFlag string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the templates of a section",
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := model.ParseSection(sectionFlag)
			if err != nil {
				return err
			}
			docs, db, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tUNIT\tBUY\tSELL")
			for _, p := range docs.GetItemPool(section) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Unit,
					humanize.Commaf(p.SuggestedBuyPrice.Float()), humanize.Commaf(p.SuggestedSellPrice.Float()))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&sectionFlag, "section", "", "section key (required)")
	_ = list.MarkFlagRequired("section")

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Fill empty sections with the default templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, db, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := docs.SeedItemPool()
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "added %d templates\n", n)
			return nil
		},
	}

	pool.AddCommand(list, seed)
	return pool
}
