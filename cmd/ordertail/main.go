// Command ordertail is a development client that tails the live order feed
// for a store. It authenticates with a session token and prints each
// incoming order event to stdout.
package main

import (
	"flag"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "API host:port")
	token := flag.String("token", "", "session JWT (from signin)")
	useTLS := flag.Bool("tls", false, "connect over wss")
	flag.Parse()

	if *token == "" {
		log.Fatal("-token is required; sign in and copy the auth-token cookie value")
	}

	scheme := "ws"
	if *useTLS {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: *addr, Path: "/api/ws/orders"}

	header := http.Header{}
	header.Set("Cookie", "auth-token="+*token)

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		if resp != nil {
			log.Fatalf("dial %s: %v (status %d)", u.String(), err, resp.StatusCode)
		}
		log.Fatalf("dial %s: %v", u.String(), err)
	}
	defer conn.Close()
	log.Printf("connected to %s, tailing order events...", u.String())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("event: %s", message)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-done:
	case <-interrupt:
		log.Println("closing connection")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
