// ABOUTME: LAN discovery helper listing running Voxmorph monitors
// ABOUTME: Browses mDNS and prints each monitor's WebSocket endpoint
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/voxmorph/voxmorph-go/internal/discovery"
)

var (
	timeout = flag.Duration("timeout", 10*time.Second, "How long to browse before exiting")
	quiet   = flag.Bool("quiet", false, "Suppress discovery logs, print endpoints only")
)

func main() {
	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}

	mgr := discovery.NewManager(discovery.Config{})
	defer mgr.Stop()

	if err := mgr.Browse(); err != nil {
		log.Fatalf("Failed to start browsing: %v", err)
	}

	fmt.Printf("Browsing for monitors (%s)...\n", *timeout)

	deadline := time.After(*timeout)
	found := 0
	for {
		select {
		case monitor := <-mgr.Monitors():
			found++
			fmt.Printf("  %s  ws://%s:%d/monitor\n", monitor.Name, monitor.Host, monitor.Port)
		case <-deadline:
			if found == 0 {
				fmt.Println("No monitors found")
			}
			return
		}
	}
}
