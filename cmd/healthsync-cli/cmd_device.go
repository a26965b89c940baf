package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"healthsync/internal/domain"
)

func (c *cli) deviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Pair a wearable and read its vitals",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.api.ConnectedDevice(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(d)
			}
			if d == nil {
				fmt.Fprintln(c.out, "No device connected")
				return nil
			}
			fmt.Fprintf(c.out, "Connected to %s (%s)\n", d.DisplayName(), d.ID)
			return nil
		},
	}

	scan := &cobra.Command{
		Use:   "scan",
		Short: "Scan for nearby devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := c.api.ScanDevices(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(devices)
			}
			rows := make([][]string, 0, len(devices))
			for _, d := range devices {
				rows = append(rows, []string{d.ID, d.DisplayName()})
			}
			return c.table([]string{"ID", "NAME"}, rows)
		},
	}

	connect := &cobra.Command{
		Use:   "connect <id>",
		Short: "Connect to a scanned device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.api.ConnectDevice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(d)
			}
			fmt.Fprintf(c.out, "Connected to %s\n", d.DisplayName())
			return nil
		},
	}

	disconnect := &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the paired device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.api.DisconnectDevice(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Disconnected")
			return nil
		},
	}

	vitals := &cobra.Command{
		Use:   "vitals",
		Short: "Show the latest heart rate and SpO2",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.api.Vitals(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(v)
			}
			return c.table([]string{"HEART RATE", "SPO2", "AT"}, [][]string{{
				strconv.Itoa(v.HeartRate) + " bpm",
				strconv.Itoa(v.SpO2) + "%",
				v.Timestamp.Local().Format("15:04:05"),
			}})
		},
	}

	cmd.AddCommand(scan, connect, disconnect, vitals)
	return cmd
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show recent reports, upcoming appointments and the paired device",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.api.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(d)
			}
			printDashboard(c, d)
			return nil
		},
	}
}

func printDashboard(c *cli, d *domain.Dashboard) {
	fmt.Fprintln(c.out, "Recent reports")
	if len(d.RecentReports) == 0 {
		fmt.Fprintln(c.out, "  none")
	}
	for _, r := range d.RecentReports {
		fmt.Fprintf(c.out, "  %s  %s  %s\n", r.Date, r.Name, r.Status)
	}

	fmt.Fprintln(c.out, "Appointments")
	if len(d.Appointments) == 0 {
		fmt.Fprintln(c.out, "  none")
	}
	for _, a := range d.Appointments {
		fmt.Fprintf(c.out, "  %s  %s (%s)\n", a.When, a.DoctorName, a.Specialization)
	}

	fmt.Fprint(c.out, "Device: ")
	if d.Device == nil {
		fmt.Fprintln(c.out, "not connected")
		return
	}
	fmt.Fprintln(c.out, d.Device.DisplayName())
}
