// Command client uploads an audio file to a tuturan server and optionally
// asks a follow-up question about the resulting transcript.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"
)

func main() {
	server := flag.String("server", "http://localhost:8000", "server base URL")
	audio := flag.String("file", "sample_audio.wav", "audio file to upload")
	question := flag.String("ask", "", "follow-up question about the transcript")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall request timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := newClient(*server, *timeout)

	log.Printf("Uploading %s to %s", *audio, *server)
	result, err := c.upload(ctx, *audio)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	log.Printf("Transcript #%d: %s", result.ID, result.Transcript)
	log.Printf("Summary: %s", result.Summary)
	log.Printf("Emotion: %s", result.Emotion)
	for _, aspect := range result.Aspects {
		log.Printf("  aspect %q: %s", aspect.Text, aspect.Sentiment)
	}

	if *question == "" {
		return
	}

	reply, err := c.ask(ctx, result.ID, *question)
	if err != nil {
		log.Fatalf("chat failed: %v", err)
	}
	if reply.Error != "" {
		log.Fatalf("assistant error: %s", reply.Error)
	}
	log.Printf("Assistant: %s", reply.AssistantMessage)
}
