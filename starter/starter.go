package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/app"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/config"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/logging"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/workflows"

	"go.temporal.io/sdk/client"
)

func main() {
	orderID := flag.String("order-id", "", "Order ID whose placement workflow to address")
	query := flag.Bool("query", false, "Query placement workflow state")
	signal := flag.String("signal", "", "Send signal to placement workflow (cancel)")
	reason := flag.String("reason", "cancelled by operator", "Reason attached to a cancel signal")
	wait := flag.Bool("wait", false, "Wait for the placement workflow to finish and print its result")
	flag.Parse()

	if *orderID == "" {
		log.Fatal("Order ID is required. Use -order-id flag")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New("warn", cfg.Production())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	c, err := app.DialTemporal(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workflowID := workflows.PlacementWorkflowID(*orderID)

	switch {
	case *signal != "":
		sendSignal(ctx, c, workflowID, *signal, *reason)
	case *query:
		queryPlacementState(ctx, c, workflowID)
	case *wait:
		waitForResult(ctx, c, workflowID)
	default:
		log.Fatal("Nothing to do. Use -query, -signal cancel or -wait")
	}
}

func sendSignal(ctx context.Context, c client.Client, workflowID, signal, reason string) {
	log.Printf("Sending signal '%s' to workflow: %s", signal, workflowID)

	var signalName string
	switch signal {
	case "cancel":
		signalName = workflows.SignalCancel
	default:
		log.Fatalf("Unknown signal: %s. Valid signals: cancel", signal)
	}

	if err := c.SignalWorkflow(ctx, workflowID, "", signalName, reason); err != nil {
		log.Fatalf("Failed to send signal: %v", err)
	}
	log.Printf("Signal '%s' sent successfully", signal)
}

func queryPlacementState(ctx context.Context, c client.Client, workflowID string) {
	log.Printf("Querying placement state: %s", workflowID)

	resp, err := c.QueryWorkflow(ctx, workflowID, "", workflows.QueryState)
	if err != nil {
		log.Fatalf("Failed to query workflow: %v", err)
	}

	var state models.PlacementState
	if err := resp.Get(&state); err != nil {
		log.Fatalf("Failed to decode query result: %v", err)
	}
	printJSON("Placement State", state)
}

func waitForResult(ctx context.Context, c client.Client, workflowID string) {
	log.Printf("Waiting for workflow: %s", workflowID)

	var result models.PlacementResult
	if err := c.GetWorkflow(ctx, workflowID, "").Get(ctx, &result); err != nil {
		log.Fatalf("Placement failed: %v", err)
	}
	printJSON("Placement Result", result)
}

func printJSON(title string, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal %s: %v", title, err)
	}
	log.Printf("%s:", title)
	fmt.Println(string(out))
}
