// Command server runs the authoritative simulation and its websocket and
// static-file endpoints. It binds 127.0.0.1:8080, serves the compiled
// client from -dist as static files (index.html as the default document),
// and upgrades GET /ws to a per-player session.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	_ "net/http/pprof"
	"reflect"
	"strconv"
	"time"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/netutil"

	"github.com/pixelled/orbitshield/internal/session"
	"github.com/pixelled/orbitshield/internal/sim"
	"github.com/pixelled/orbitshield/internal/wire"
)

// Make sure encoder registration runs before the config is used.
var statusJSON = func() jsoniter.API {
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(wire.EntityID(0)).String(), encodeEntityID, emptyEntityID)
	return jsoniter.ConfigCompatibleWithStandardLibrary
}()

// encodeEntityID renders an EntityID as a quoted decimal string: the ids
// are opaque 64-bit values, and JSON consumers that parse numbers as
// float64 would silently truncate them.
func encodeEntityID(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	id := *(*wire.EntityID)(ptr)
	stream.SetBuffer(append(strconv.AppendUint(append(stream.Buffer(), '"'), uint64(id), 10), '"'))
}

func emptyEntityID(ptr unsafe.Pointer) bool {
	return *(*wire.EntityID)(ptr) == 0
}

func main() {
	var (
		addr           string
		dist           string
		maxConnections int
		maxConnsPerIP  int
	)

	flag.StringVar(&addr, "addr", "127.0.0.1:8080", "http service address")
	flag.StringVar(&dist, "dist", "dist", "static client directory")
	flag.IntVar(&maxConnections, "max-connections", 256, "maximum number of inbound TCP connections")
	flag.IntVar(&maxConnsPerIP, "max-connections-per-ip", 10, "maximum concurrent websocket sessions per source IP (429 past this)")
	flag.Parse()

	world := sim.NewWorld()
	go runSimulation(world)

	limiter := session.NewConnLimiter(maxConnsPerIP)

	http.Handle("/", http.FileServer(http.Dir(dist)))
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		session.Serve(world, limiter, w, r)
	})
	http.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body, err := statusJSON.Marshal(world.Status())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(body)
	})

	l, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer l.Close()
	l = netutil.LimitListener(l, maxConnections)

	log.Println(fmt.Sprint("orbitshield server listening on ", addr))
	log.Fatal("serve: ", http.Serve(l, nil))
}

// runSimulation drives the fixed-timestep tick loop on its own goroutine,
// the sole writer of all world state. A dropped tick (the previous one ran
// long) is not made up; the loop simply ticks again at the next interval.
func runSimulation(world *sim.World) {
	ticker := time.NewTicker(sim.TickTime)
	defer ticker.Stop()
	for range ticker.C {
		world.Tick()
	}
}
