// Command mirror replays or consumes gateway dispatches into Redis.
package main

func main() {
	Execute()
}
