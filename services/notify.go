package services

import "encoding/json"

type wsNotify struct {
	Event      string `json:"event"`
	NotifyType string `json:"notify_type"`
	Message    string `json:"message"`
}

// SendWsNotify - короткое уведомление пользователю через WebSocket
// (например, о новом лайке или подписчике, пока открыт клиент)
func SendWsNotify(userID int64, notifyType string, message string) error {
	if len(notifyType) == 0 {
		notifyType = "info"
	}
	if len(message) == 0 {
		return nil
	}
	if len(message) > 100 {
		message = message[:100] + "..."
	}
	// Без живого соединения сериализовать нечего и некому
	if !GlobalWSConnManager.Connected(userID) {
		return nil
	}
	notify := wsNotify{Event: "notification", NotifyType: notifyType, Message: message}
	jsonData, err := json.Marshal(notify)
	if err != nil {
		return err
	}
	GlobalWSConnManager.Send(userID, jsonData)
	return nil
}
