package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/aquacharge/app"
	"github.com/kilianp07/aquacharge/core/booking"
	"github.com/kilianp07/aquacharge/core/model"
)

var bookFlags struct {
	charger     string
	station     string
	vessel      string
	user        string
	chargerType string
	start       string
	end         string
	status      string
}

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Reserve a charger for an interval",
	RunE:  runBook,
}

var listCharger string

var reservationsCmd = &cobra.Command{
	Use:   "reservations",
	Short: "List reservations of a charger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(svc *app.Service) error {
			res, err := svc.Booking.List(cmd.Context(), listCharger)
			if err != nil {
				return err
			}
			return printReservations(cmd.OutOrStdout(), res)
		})
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming VESSEL_ID",
	Short: "List a vessel's pending and confirmed reservations that have not started",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(svc *app.Service) error {
			res, err := svc.Booking.Upcoming(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printReservations(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	f := bookCmd.Flags()
	f.StringVar(&bookFlags.charger, "charger", "", "charger id")
	f.StringVar(&bookFlags.station, "station", "", "station id")
	f.StringVar(&bookFlags.vessel, "vessel", "", "vessel id")
	f.StringVar(&bookFlags.user, "user", "", "user id")
	f.StringVar(&bookFlags.chargerType, "charger-type", "", "charger type")
	f.StringVar(&bookFlags.start, "start", "", "start time (RFC3339)")
	f.StringVar(&bookFlags.end, "end", "", "end time (RFC3339)")
	f.StringVar(&bookFlags.status, "status", "pending", "initial status: pending or confirmed")
	_ = bookCmd.MarkFlagRequired("charger")
	_ = bookCmd.MarkFlagRequired("vessel")
	_ = bookCmd.MarkFlagRequired("start")
	_ = bookCmd.MarkFlagRequired("end")

	reservationsCmd.Flags().StringVar(&listCharger, "charger", "", "charger id")
	_ = reservationsCmd.MarkFlagRequired("charger")

	rootCmd.AddCommand(bookCmd, reservationsCmd, upcomingCmd,
		transitionCmd("cancel", "Cancel a pending or confirmed reservation", (*booking.Service).Cancel),
		transitionCmd("confirm", "Confirm a pending reservation", (*booking.Service).Confirm),
		transitionCmd("complete", "Complete a confirmed reservation that has ended", (*booking.Service).Complete),
	)
}

func runBook(cmd *cobra.Command, args []string) error {
	start, err := time.Parse(time.RFC3339, bookFlags.start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, bookFlags.end)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}
	var status model.ReservationStatus
	if err := status.UnmarshalText([]byte(bookFlags.status)); err != nil {
		return fmt.Errorf("--status: %w", err)
	}
	req := booking.Request{
		ChargerID:   bookFlags.charger,
		StationID:   bookFlags.station,
		VesselID:    bookFlags.vessel,
		UserID:      bookFlags.user,
		ChargerType: bookFlags.chargerType,
		Start:       start,
		End:         end,
		Status:      status,
	}
	return withService(cmd, func(svc *app.Service) error {
		r, err := svc.Booking.Book(cmd.Context(), req)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), r.ID)
		return err
	})
}

type transitionFunc func(*booking.Service, context.Context, string) (model.Reservation, error)

func transitionCmd(use, short string, fn transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " RESERVATION_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *app.Service) error {
				r, err := fn(svc.Booking, cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", r.ID, r.Status)
				return err
			})
		},
	}
}

func printReservations(w io.Writer, res []model.Reservation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCHARGER\tVESSEL\tSTART\tEND\tSTATUS")
	for _, r := range res {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.ChargerID, r.VesselID,
			r.Interval.Start.Format(time.RFC3339), r.Interval.End.Format(time.RFC3339), r.Status)
	}
	return tw.Flush()
}
