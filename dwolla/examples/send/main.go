// Sends one cent on the UAT environment. Set DWIFT_TOKEN and DWIFT_PIN first.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/ozbe/dwift/dwolla"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client, err := dwolla.New(os.Getenv("DWIFT_TOKEN"), dwolla.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	// happy path
	resp := client.Send(context.Background(), dwolla.SendRequest{
		DestinationID: "812-741-6790",
		PIN:           os.Getenv("DWIFT_PIN"),
		Amount:        decimal.RequireFromString("0.01"),
	})
	fmt.Printf("success=%v message=%q\n", resp.Success, resp.Message)
	if resp.Payload != nil {
		fmt.Println("sent", resp.Payload.String())
	}

	// invalid pin
	resp = client.Send(context.Background(), dwolla.SendRequest{
		DestinationID: "812-741-6790",
		PIN:           "0000",
		Amount:        decimal.RequireFromString("0.01"),
	})
	fmt.Printf("success=%v err=%v\n", resp.Success, resp.Err())
}
