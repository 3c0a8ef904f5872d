package controllers

import (
	"fmt"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/exceptions"
	"medichat-service/internal/pkg/utils"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type NotificationController struct {
	Log        *zap.Logger
	Dispatcher contracts.NotificationDispatcher
}

var (
	notificationControllerInstance *NotificationController
	onceNotificationController     sync.Once
)

func NewNotificationController(logger *zap.Logger, dispatcher contracts.NotificationDispatcher) *NotificationController {
	onceNotificationController.Do(func() {
		instance := &NotificationController{
			Log:        logger,
			Dispatcher: dispatcher,
		}
		notificationControllerInstance = instance
	})
	return notificationControllerInstance
}

// Stream serves approval-workflow events over server-sent events.
// `?session_id=` scopes to one session; `?scope=pending` streams every
// pending-pool transition for the doctor dashboard.
func (ctrl *NotificationController) Stream(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("NotificationController.Stream requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	scope := r.URL.Query().Get("scope")
	ctrl.Log.Info("NotificationController.Stream called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingQueryKey, scope),
	)

	var subscription contracts.Subscription
	switch {
	case scope == "pending":
		subscription = ctrl.Dispatcher.SubscribePending()
	case sessionID != "":
		subscription = ctrl.Dispatcher.SubscribeSession(sessionID)
	default:
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(fmt.Errorf("stream requires session_id or scope=pending")))
		return
	}
	defer subscription.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrStreamingUnsupported(nil))
		return
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMETextEventStream)
	w.Header().Set(constvars.HeaderCacheControl, "no-cache")
	w.Header().Set(constvars.HeaderConnection, "keep-alive")
	w.WriteHeader(constvars.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			ctrl.Log.Info("NotificationController.Stream client disconnected",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, sessionID),
			)
			return
		case event, open := <-subscription.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				ctrl.Log.Error("NotificationController.Stream error marshaling event",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(err),
				)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}
