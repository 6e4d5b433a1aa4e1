// Command smoke exercises a running neoscope server end to end.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the neoscope server")
	name := flag.String("name", "Eros", "NEO name to look up")
	wait := flag.Duration("wait", 2*time.Second, "Time to wait for the server to start")
	flag.Parse()

	time.Sleep(*wait)
	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Health check...")
	if _, ok := get(client, *baseURL+"/healthz"); !ok {
		fmt.Println("FAILED: health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: health check")

	fmt.Println("2. Lookup by name...")
	body, ok := get(client, *baseURL+"/neos?name="+url.QueryEscape(*name))
	if !ok {
		fmt.Println("FAILED: lookup by name")
		os.Exit(1)
	}
	var neo struct {
		Designation string `json:"designation"`
	}
	if err := json.Unmarshal(body, &neo); err != nil || neo.Designation == "" {
		fmt.Printf("FAILED: unexpected NEO payload: %s\n", body)
		os.Exit(1)
	}
	fmt.Printf("PASSED: lookup by name (%s)\n", neo.Designation)

	fmt.Println("3. Lookup by designation...")
	if _, ok := get(client, *baseURL+"/neos/"+url.PathEscape(neo.Designation)); !ok {
		fmt.Println("FAILED: lookup by designation")
		os.Exit(1)
	}
	fmt.Println("PASSED: lookup by designation")

	fmt.Println("4. Filtered query...")
	body, ok = get(client, *baseURL+"/approaches?max_distance=0.1&limit=5")
	if !ok {
		fmt.Println("FAILED: query")
		os.Exit(1)
	}
	var approaches []json.RawMessage
	if err := json.Unmarshal(body, &approaches); err != nil || len(approaches) > 5 {
		fmt.Printf("FAILED: unexpected query payload: %s\n", body)
		os.Exit(1)
	}
	fmt.Printf("PASSED: query (%d results)\n", len(approaches))
}

func get(client *http.Client, target string) ([]byte, bool) {
	resp, err := client.Get(target)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(body))
		return nil, false
	}
	return body, true
}
