package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	smdGrpc "github.com/mzrn1122/SMD/pkg/grpc"
)

var maxDevices int = 1000
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient *smdGrpc.DispenserServiceClient

var commandNames = []string{"REMOTE_RESET", "FORCE_SYNC", "POWER_CYCLE"}

var failures atomic.Int64

func main() {
	deviceIDs := make([]string, maxDevices)
	for i := range maxDevices {
		deviceIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = smdGrpc.NewDispenserServiceClient(conn)

	fmt.Printf("gRPC client created\n")

	run("sent schedule", deviceIDs, 1, sendSchedule)
	run("did actions", deviceIDs, 3, doActions)

	fmt.Printf("failed calls: %v\n", failures.Load())
}

func run(label string, deviceIDs []string, actionsPerDevice int, action func(string)) {
	startTime := time.Now()
	wg := sync.WaitGroup{}
	for i := range deviceIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			action(deviceIDs[i])
		}()
	}
	wg.Wait()
	usedTime := time.Since(startTime)

	fmt.Printf(
		"\r%s for %v devices: used time=%v seconds, throughput=%v action/second\n",
		label, len(deviceIDs), usedTime.Seconds(), float64(len(deviceIDs)*actionsPerDevice)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	return rand.IntN(2) == 0
}

func fail(format string, args ...any) {
	failures.Add(1)
	fmt.Printf("\n"+format+"\n", args...)
}

func postJSON(path string, payload any) {
	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(fmt.Sprintf("http://%s%s", httpHostPort, path), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		fail("error: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		fail("POST %s: status %v", path, resp.StatusCode)
	}
}

func callGrpc(call func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error), fields map[string]any) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		fail("error: %v", err)
		return
	}
	resp, err := call(context.Background(), req)
	if err != nil {
		fail("error: %v", err)
		return
	}
	if !resp.GetFields()["success"].GetBoolValue() {
		fail("response success = false: %v", resp)
	}
}

func randomSlots() []int {
	n := 1 + rand.IntN(7)
	return rand.Perm(7)[:n]
}

func sendSchedule(deviceID string) {
	slots := randomSlots()
	for i := range slots {
		slots[i]++
	}
	at := fmt.Sprintf("%02d:%02d", rand.IntN(24), rand.IntN(60))

	if flipCoin() {
		postJSON("/devices/"+deviceID+"/schedule", map[string]any{"slots": slots, "time": at})
	} else {
		anySlots := make([]any, len(slots))
		for i, s := range slots {
			anySlots[i] = s
		}
		callGrpc(grpcClient.UpdateSchedule, map[string]any{"deviceId": deviceID, "slots": anySlots, "time": at})
	}
}

func sendCommand(deviceID string) {
	name := commandNames[rand.IntN(len(commandNames))]
	if flipCoin() {
		postJSON("/devices/"+deviceID+"/commands", map[string]any{"name": name, "params": map[string]any{}})
	} else {
		callGrpc(grpcClient.SendCommand, map[string]any{"deviceId": deviceID, "name": name})
	}
}

func getInventory(deviceID string) {
	if flipCoin() {
		resp, err := http.Get(fmt.Sprintf("http://%s/devices/%s/inventory", httpHostPort, deviceID))
		if err != nil {
			fail("error: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fail("GET inventory: status %v", resp.StatusCode)
		}
	} else {
		callGrpc(grpcClient.GetInventory, map[string]any{"deviceId": deviceID})
	}
}

func doActions(deviceID string) {
	actions := []func(string){sendCommand, sendSchedule, getInventory}
	rand.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
	})
	for _, action := range actions {
		action(deviceID)
		time.Sleep(time.Duration(100+rand.IntN(1000)) * time.Millisecond)
	}
}
