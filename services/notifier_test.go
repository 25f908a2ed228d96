package services

import "testing"

func TestNotifyMenuPublishedWithoutNotifier(t *testing.T) {
	InitNotifier(nil)
	// must be a safe no-op anywhere in the request path
	NotifyMenuPublished(MenuPublishedJob{MenuID: "x", Title: "Lunch"})
}

func TestEnqueueNeverBlocks(t *testing.T) {
	// worker intentionally not started: the queue fills up and overflow jobs
	// are dropped instead of stalling the publish request
	n := NewNotifier(nil, nil, nil, nil)
	for i := 0; i < 200; i++ {
		n.Enqueue(MenuPublishedJob{MenuID: "m", Title: "Lunch"})
	}
}

func TestWorkerDrainsQueue(t *testing.T) {
	n := NewNotifier(nil, nil, nil, nil)
	n.Start()
	for i := 0; i < 10; i++ {
		n.Enqueue(MenuPublishedJob{MenuID: "m", Title: "Lunch"})
	}
	// all delivery targets are nil; the worker must swallow the jobs quietly
}
