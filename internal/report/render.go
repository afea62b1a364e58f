// Package report renders the printable documents: billing receipts, payment
// receipts and the full billing report. The output is plain text sized for
// the thermal printer at the teller window.
package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/waterworks-ph/waterworks/internal/billing"
	"github.com/waterworks-ph/waterworks/internal/config"
	"github.com/waterworks-ph/waterworks/internal/service"
)

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pad": func(width int, s string) string {
		if len(s) >= width {
			return s
		}
		return s + strings.Repeat(" ", width-len(s))
	},
}

const billingReceiptText = `{{template "header" .Utility}}
           BILLING RECEIPT
=========================================
Account No : {{.Receipt.MeterID}}
Name       : {{.Receipt.AccountName}}
Connection : {{.Receipt.Connection}}
Address    : {{.Receipt.Address}}
-----------------------------------------
Period     : {{.Receipt.ConsumptionFrom}} - {{.Receipt.ConsumptionTo}}
Reading    : {{.Receipt.Reading}}
Consumption: {{.Receipt.Consumption}} cu.m
Amount Due : {{money .Receipt.AmountDue}}
{{- if .Receipt.Arrears}}
-----------------------------------------
ARREARS
{{- range .Receipt.Arrears}}
  {{pad 20 .Month}}{{money .Amount}}
{{- end}}
  {{pad 20 "Total Arrears"}}{{money .Receipt.TotalArrears}}
{{- end}}
=========================================
TOTAL DUE  : {{money .Receipt.TotalDue}}
{{template "footer" .Utility}}`

const paymentReceiptText = `{{template "header" .Utility}}
           PAYMENT RECEIPT
=========================================
Account No : {{.Receipt.MeterID}}
Name       : {{.Receipt.AccountName}}
Connection : {{.Receipt.Connection}}
Address    : {{.Receipt.Address}}
-----------------------------------------
Bill Month : {{.Receipt.Month}}
Reading    : {{.Receipt.Reading}}
Paid Date  : {{.Receipt.PaidDate}}
=========================================
AMOUNT PAID: {{money .Receipt.AmountPaid}}
{{template "footer" .Utility}}`

const billingReportText = `{{template "header" .Utility}}
            BILLING REPORT
{{pad 22 "NAME"}}{{pad 12 "MONTH"}}{{pad 8 "PREV"}}{{pad 8 "CURR"}}{{pad 10 "AMOUNT"}}{{pad 12 "DEADLINE"}}PAID
{{- range .Rows}}
{{pad 22 .CustomerName}}{{pad 12 .Month}}{{pad 8 (printf "%v" .PrevReading)}}{{pad 8 (printf "%v" .CurrentReading)}}{{pad 10 (money .Amount)}}{{pad 12 .Deadline}}{{.PaidDate}}
{{- end}}
`

const headerText = `{{define "header"}}=========================================
{{.Name}}
{{- range .Address}}
{{.}}
{{- end}}
========================================={{end}}`

const footerText = `{{define "footer"}}-----------------------------------------
{{- range .Contacts}}
{{.Label}}: {{.Value}}
{{- end}}{{end}}`

// Renderer holds the parsed templates and the utility identity printed on
// every document.
type Renderer struct {
	utility config.UtilityConfig

	billingReceipt *template.Template
	paymentReceipt *template.Template
	billingReport  *template.Template
}

// New creates a Renderer for the given utility identity.
func New(utility config.UtilityConfig) *Renderer {
	parse := func(name, text string) *template.Template {
		t := template.New(name).Funcs(funcs)
		template.Must(t.Parse(headerText))
		template.Must(t.Parse(footerText))
		return template.Must(t.Parse(text))
	}
	return &Renderer{
		utility:        utility,
		billingReceipt: parse("billing_receipt", billingReceiptText),
		paymentReceipt: parse("payment_receipt", paymentReceiptText),
		billingReport:  parse("billing_report", billingReportText),
	}
}

// BillingReceipt renders the printable receipt for a single bill.
func (r *Renderer) BillingReceipt(receipt *billing.Receipt) (string, error) {
	var b strings.Builder
	err := r.billingReceipt.Execute(&b, struct {
		Utility config.UtilityConfig
		Receipt *billing.Receipt
	}{r.utility, receipt})
	if err != nil {
		return "", fmt.Errorf("failed to render billing receipt: %w", err)
	}
	return b.String(), nil
}

// PaymentReceipt renders the printable proof of payment for one settled bill.
func (r *Renderer) PaymentReceipt(receipt *billing.PaymentReceipt) (string, error) {
	var b strings.Builder
	err := r.paymentReceipt.Execute(&b, struct {
		Utility config.UtilityConfig
		Receipt *billing.PaymentReceipt
	}{r.utility, receipt})
	if err != nil {
		return "", fmt.Errorf("failed to render payment receipt: %w", err)
	}
	return b.String(), nil
}

// BillingReport renders the full billing report, one line per bill.
func (r *Renderer) BillingReport(rows []service.BillingRow) (string, error) {
	var b strings.Builder
	err := r.billingReport.Execute(&b, struct {
		Utility config.UtilityConfig
		Rows    []service.BillingRow
	}{r.utility, rows})
	if err != nil {
		return "", fmt.Errorf("failed to render billing report: %w", err)
	}
	return b.String(), nil
}
