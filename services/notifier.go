package services

import (
	"log"

	"lunch-backend/utils"
)

// MenuPublishedJob carries everything the worker needs to announce a new menu.
type MenuPublishedJob struct {
	MenuID      string
	Title       string
	Link        string
	Recipients  []string
	NotifyMail  bool
	NotifySlack bool
}

// Notifier decouples menu publication from notification delivery: the request
// path enqueues a job and returns, a single worker goroutine drains the queue.
// The requester never observes delivery success or failure.
type Notifier struct {
	jobs   chan MenuPublishedJob
	mailer *utils.Mailer
	slack  *utils.SlackClient
	push   *PushService
	hub    *RealtimeHub
}

func NewNotifier(mailer *utils.Mailer, slack *utils.SlackClient, push *PushService, hub *RealtimeHub) *Notifier {
	return &Notifier{
		jobs:   make(chan MenuPublishedJob, 64),
		mailer: mailer,
		slack:  slack,
		push:   push,
		hub:    hub,
	}
}

// Start launches the delivery worker.
func (n *Notifier) Start() {
	go func() {
		for job := range n.jobs {
			n.deliver(job)
		}
	}()
}

// Enqueue hands a job to the worker without blocking the caller. If the queue
// is full the job is dropped and logged; there are no retries.
func (n *Notifier) Enqueue(job MenuPublishedJob) {
	select {
	case n.jobs <- job:
	default:
		log.Printf("notification queue full, dropping job for menu %s", job.MenuID)
	}
}

func (n *Notifier) deliver(job MenuPublishedJob) {
	if job.NotifyMail && n.mailer != nil {
		if err := n.mailer.SendMenuPublishedMail(job.Recipients, job.Link); err != nil {
			log.Printf("menu mail notification failed: %v", err)
		}
	}
	if job.NotifySlack && n.slack != nil {
		if err := n.slack.SendMenuPublished(job.Title, job.Link); err != nil {
			log.Printf("menu slack notification failed: %v", err)
		}
	}
	if n.push != nil {
		n.push.PushToAll("Nuevo menú del dia de hoy", job.Title, map[string]string{
			"menuId": job.MenuID,
		})
	}
	if n.hub != nil {
		n.hub.BroadcastMenuPublished(map[string]any{
			"kind":  "menu.published",
			"menu":  job.MenuID,
			"title": job.Title,
			"link":  job.Link,
		})
	}
}

var _notifier *Notifier

// InitNotifier installs the process-wide notifier. Safe to leave unset in
// tests; NotifyMenuPublished becomes a no-op.
func InitNotifier(n *Notifier) {
	_notifier = n
}

// NotifyMenuPublished enqueues a menu announcement, if a notifier is wired.
func NotifyMenuPublished(job MenuPublishedJob) {
	if _notifier == nil {
		return
	}
	_notifier.Enqueue(job)
}
