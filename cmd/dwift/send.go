package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ozbe/dwift/dwolla"
)

type sendFlags struct {
	destination          string
	pin                  string
	amount               string
	destinationType      string
	fundsSource          string
	notes                string
	assumeCosts          bool
	assumeAdditionalFees bool
	facilitatorAmount    string
	fees                 []string
	metadata             map[string]string
	output               string
}

func newSendCmd(a *app) *cobra.Command {
	f := &sendFlags{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send money to a Dwolla account, email, phone or social id",
		Example: `  DWIFT_TOKEN=... DWIFT_PIN=... dwift send --destination 812-741-6790 --amount 0.01
  dwift send --destination someone@example.com --destination-type email --amount 5 --notes lunch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.output != "json" && f.output != "text" {
				return fmt.Errorf("invalid --output %q", f.output)
			}
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			resp := c.Send(cmd.Context(), req)
			if err := printResponse(a.stdout, f.output, resp); err != nil {
				return err
			}
			if !resp.Success {
				return errUnsuccessful
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.destination, "destination", "d", "", "destination id, email, phone or social handle")
	fl.StringVar(&f.pin, "pin", "", "account PIN (defaults to DWIFT_PIN)")
	fl.StringVarP(&f.amount, "amount", "a", "", "amount to send, e.g. 0.01")
	fl.StringVar(&f.destinationType, "destination-type", "", "dwolla, email, phone, twitter, facebook or linkedin")
	fl.StringVar(&f.fundsSource, "funds-source", "", "funding source id")
	fl.StringVar(&f.notes, "notes", "", "note attached to the transaction")
	fl.BoolVar(&f.assumeCosts, "assume-costs", false, "sender pays the transaction fee")
	fl.BoolVar(&f.assumeAdditionalFees, "assume-additional-fees", false, "sender pays the additional fees")
	fl.StringVar(&f.facilitatorAmount, "facilitator-amount", "", "facilitator fee amount")
	fl.StringArrayVar(&f.fees, "fee", nil, "additional fee as destination=amount (repeatable)")
	fl.StringToStringVar(&f.metadata, "metadata", nil, "metadata key=value pairs")
	fl.StringVarP(&f.output, "output", "o", "json", "output format (json, text)")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (f *sendFlags) request(cmd *cobra.Command) (dwolla.SendRequest, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return dwolla.SendRequest{}, fmt.Errorf("invalid --amount %q: %w", f.amount, err)
	}
	pin := f.pin
	if pin == "" {
		pin = os.Getenv("DWIFT_PIN")
	}
	req := dwolla.SendRequest{
		DestinationID: f.destination,
		PIN:           pin,
		Amount:        amount,
	}
	if len(f.metadata) > 0 {
		req.Metadata = f.metadata
	}

	fl := cmd.Flags()
	if fl.Changed("destination-type") {
		dt, err := dwolla.ParseDestinationType(f.destinationType)
		if err != nil {
			return dwolla.SendRequest{}, err
		}
		req.DestinationType = &dt
	}
	if fl.Changed("funds-source") {
		req.FundsSource = &f.fundsSource
	}
	if fl.Changed("notes") {
		req.Notes = &f.notes
	}
	if fl.Changed("assume-costs") {
		req.AssumeCosts = &f.assumeCosts
	}
	if fl.Changed("assume-additional-fees") {
		req.AssumeAdditionalFees = &f.assumeAdditionalFees
	}
	if fl.Changed("facilitator-amount") {
		fa, err := decimal.NewFromString(f.facilitatorAmount)
		if err != nil {
			return dwolla.SendRequest{}, fmt.Errorf("invalid --facilitator-amount %q: %w", f.facilitatorAmount, err)
		}
		req.FacilitatorAmount = &fa
	}
	for _, raw := range f.fees {
		dest, amt, ok := strings.Cut(raw, "=")
		if !ok {
			return dwolla.SendRequest{}, fmt.Errorf("invalid --fee %q: want destination=amount", raw)
		}
		d, err := decimal.NewFromString(amt)
		if err != nil {
			return dwolla.SendRequest{}, fmt.Errorf("invalid --fee %q: %w", raw, err)
		}
		req.AdditionalFees = append(req.AdditionalFees, dwolla.Fee{DestinationID: dest, Amount: d})
	}
	return req, nil
}

func printResponse[T any](w io.Writer, format string, resp dwolla.Response[T]) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "text":
		table := uitable.New()
		table.RightAlign(0)
		table.Separator = " "
		table.AddRow("success:", resp.Success)
		table.AddRow("message:", resp.Message)
		if resp.Payload != nil {
			table.AddRow("payload:", *resp.Payload)
		}
		_, err := fmt.Fprintln(w, table.String())
		return err
	default:
		return fmt.Errorf("invalid --output %q", format)
	}
}
