package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		ChargeID       string `json:"charge_id,omitempty"`
		FailureMessage string `json:"failure_message,omitempty"`
	} `json:"data"`
}

func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/payarc", "Webhook URL")
	secret := flag.String("secret", os.Getenv("PAYARC_WEBHOOK_SECRET"), "Webhook secret (empty: send unsigned)")
	eventType := flag.String("type", "charge.succeeded", "Event type (charge.succeeded, charge.failed, charge.refunded, charge.disputed)")
	objectID := flag.String("id", "ch_"+randomHex(8), "Object id (charge id, or refund id for charge.refunded)")
	chargeID := flag.String("charge-id", "", "Charge id (for charge.refunded)")
	failureMsg := flag.String("failure-message", "", "Failure message (for charge.failed)")
	header := flag.String("header", "Payarc-Signature", "Signature header name")
	prefix := flag.Bool("sha256-prefix", false, "Prefix the signature with sha256=")
	dryRun := flag.Bool("dry-run", false, "Only print signature header, don't send")

	flag.Parse()

	payload := webhookPayload{Type: *eventType}
	payload.Data.ID = *objectID
	payload.Data.ChargeID = *chargeID
	payload.Data.FailureMessage = *failureMsg

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	sig := ""
	if *secret != "" {
		m := hmac.New(sha256.New, []byte(*secret))
		m.Write(body)
		sig = hex.EncodeToString(m.Sum(nil))
		if *prefix {
			sig = "sha256=" + sig
		}
		fmt.Printf("%s: %s\n", *header, sig)
	}
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(*header, sig)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000"[:2*n]
	}
	return hex.EncodeToString(b)[:2*n]
}
