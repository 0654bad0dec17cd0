package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/clinic/clinic/internal/client/model"
	"github.com/clinic/clinic/internal/client/viewmodel"
)

func table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func renderPatients(w io.Writer, items []model.Patient) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No patients found.")
		return
	}
	tw := table(w, "ID", "NAME", "EMAIL", "PHONE", "DATE OF BIRTH")
	for _, p := range items {
		row(tw, p.ID, p.Name, p.Email, orDash(p.Phone), orDash(p.DateOfBirth))
	}
	tw.Flush()
}

func renderAppointments(w io.Writer, items []model.Appointment) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No appointments.")
		return
	}
	tw := table(w, "ID", "DATE", "TIME", "PATIENT", "REASON", "STATUS")
	for _, a := range items {
		row(tw, a.ID, a.Date, a.Time, a.PatientName, a.Reason, a.Status)
	}
	tw.Flush()
}

func renderAppointmentGroups(w io.Writer, groups []viewmodel.DateGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No appointments.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", g.Date)
		tw := table(w, "  TIME", "PATIENT", "REASON", "STATUS", "ID")
		for _, a := range g.Appointments {
			row(tw, "  "+a.Time, a.PatientName, a.Reason, a.Status, a.ID)
		}
		tw.Flush()
	}
}

func renderFollowUps(w io.Writer, items []model.FollowUp) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No follow-ups.")
		return
	}
	tw := table(w, "ID", "DUE", "PATIENT", "TITLE", "PRIORITY", "STATUS")
	for _, f := range items {
		row(tw, f.ID, f.DueDate, f.PatientName, f.Title, orDash(f.Priority), f.Status)
	}
	tw.Flush()
}

func renderNotes(w io.Writer, items []model.Note) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}
	for _, n := range items {
		fmt.Fprintf(w, "[%s] %s\n  %s\n", formatTime(n.CreatedAt), orDash(n.CreatedBy), n.Content)
	}
}

func renderStaff(w io.Writer, items []model.StaffMember, me *model.Identity) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No staff members.")
		return
	}
	tw := table(w, "ID", "NAME", "EMAIL", "ROLE", "JOINED")
	for _, m := range items {
		name := m.Name
		if me != nil && me.ID == m.ID {
			name += " (you)"
		}
		row(tw, m.ID, name, m.Email, m.Role, formatTime(m.JoinedAt))
	}
	tw.Flush()
}

func renderDashboard(w io.Writer, st model.DashboardStats) {
	fmt.Fprintf(w, "Patients: %d   Today's appointments: %d   Open follow-ups: %d\n\n",
		st.TotalPatients, st.TodayAppointments, st.OpenFollowUps)
	fmt.Fprintln(w, "Upcoming appointments")
	renderAppointments(w, st.UpcomingAppointments)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Open follow-ups")
	renderFollowUps(w, st.OpenFollowUpsList)
}
