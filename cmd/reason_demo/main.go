// README: Runs one reasoning turn against Gemini and prints the repaired result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"samway/internal/ai"
	"samway/internal/modules/intent"
	"samway/internal/modules/reasoning"
)

func main() {
	message := flag.String("message", "Que faire à Montmartre", "user message")
	days := flag.Int("days", 3, "stay length in days")
	flag.Parse()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	provider, err := ai.NewGeminiProvider(ctx, apiKey, ai.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	gazetteer, err := intent.LoadDefault()
	if err != nil {
		log.Fatal(err)
	}
	loc, ok := intent.NewDetector(gazetteer).Detect(*message)
	if !ok {
		log.Fatalf("no city or neighborhood found in %q", *message)
	}

	dep, _ := intent.DefaultWindow(time.Now())
	tc := intent.TravelContext{
		City:          loc.City,
		Neighborhood:  loc.Neighborhood,
		DepartureDate: dep,
		ArrivalDate:   intent.AddDays(dep, *days),
	}

	fmt.Printf("User: %s\n", *message)
	fmt.Printf("Context: %s / %s, %s -> %s\n", tc.City, tc.Neighborhood, tc.DepartureDate, tc.ArrivalDate)

	res := reasoning.NewService(provider).Reason(ctx, *message, tc)
	fmt.Printf("Outcome: %s\n", res.Outcome)
	fmt.Printf("Response: %s\n", res.Response)

	out, err := json.MarshalIndent(res.Reasoning, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
