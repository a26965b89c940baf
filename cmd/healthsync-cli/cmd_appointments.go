package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"healthsync/internal/domain"
)

func (c *cli) doctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "List bookable doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, err := c.api.Doctors(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(doctors)
			}
			rows := make([][]string, 0, len(doctors))
			for _, d := range doctors {
				rows = append(rows, []string{d.ID, d.Name, d.Specialization})
			}
			return c.table([]string{"ID", "NAME", "SPECIALIZATION"}, rows)
		},
	}
}

func (c *cli) appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "List and book appointments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List booked appointments, soonest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			appts, err := c.api.ListAppointments(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(appts)
			}
			now := time.Now()
			rows := make([][]string, 0, len(appts))
			for _, a := range appts {
				doctor := a.Doctor
				if d, ok := domain.FindDoctor(a.Doctor); ok {
					doctor = d.Name
				}
				rows = append(rows, []string{a.ID, domain.FormatAppointmentDateTime(a.Date, a.Time, now), doctor, a.Name, a.Status})
			}
			return c.table([]string{"ID", "WHEN", "DOCTOR", "PATIENT", "STATUS"}, rows)
		},
	}

	var form domain.AppointmentForm
	book := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			appt, err := c.api.BookAppointment(cmd.Context(), form)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(appt)
			}
			fmt.Fprintf(c.out, "Booked %s on %s at %s (%s)\n", appt.ID, appt.Date, appt.Time, appt.Status)
			return nil
		},
	}
	f := book.Flags()
	f.StringVar(&form.Name, "name", "", "patient name")
	f.StringVar(&form.Phone, "phone", "", "10-digit phone number")
	f.StringVar(&form.Email, "email", "", "patient email")
	f.StringVar(&form.Doctor, "doctor", "", "doctor id, as listed by the doctors command")
	f.StringVar(&form.Date, "date", "", "date, YYYY-MM-DD")
	f.StringVar(&form.Time, "time", "", "time, HH:MM")
	f.StringVar(&form.Reason, "reason", "", "reason for the visit")

	cmd.AddCommand(list, book, c.exportCmd("appointments"))
	return cmd
}

// exportCmd writes the xlsx export for kind to --out
func (c *cli) exportCmd(kind string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download an Excel export of " + kind,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.api.Export(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(c.out, "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", kind+".xlsx", "output file")
	return cmd
}
