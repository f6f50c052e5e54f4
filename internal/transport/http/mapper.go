package http

import (
	"encoding/json"

	"github.com/parleychat/parley-server/internal/core"
	"github.com/parleychat/parley-server/internal/proto"
	"github.com/parleychat/parley-server/internal/store"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: data.RoomID}, nil, nil

	case proto.InboundTypeTyping, proto.InboundTypeStopTyping, proto.InboundTypeMarkSeen:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		kind := core.CommandTyping
		switch inbound.Type {
		case proto.InboundTypeStopTyping:
			kind = core.CommandStopTyping
		case proto.InboundTypeMarkSeen:
			kind = core.CommandMarkSeen
		}
		return &core.Command{Kind: kind, Room: data.RoomID}, nil, nil

	case proto.InboundTypeSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		chatType := core.ChatGroup
		if data.ChatType == string(core.ChatPrivate) {
			chatType = core.ChatPrivate
		}
		return &core.Command{
			Kind:     core.CommandSendMessage,
			Room:     data.RoomID,
			ChatType: chatType,
			Text:     data.Message,
			Receiver: data.ReceiverName,
		}, nil, nil

	case proto.InboundTypeEditMessage:
		var data proto.EditMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:      core.CommandEditMessage,
			MessageID: data.MessageID,
			Text:      data.NewText,
		}, nil, nil

	case proto.InboundTypeDeleteMessage:
		var data proto.DeleteMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandDeleteMessage, MessageID: data.MessageID}, nil, nil

	case proto.InboundTypeReactMessage:
		var data proto.ReactMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:      core.CommandReactMessage,
			MessageID: data.MessageID,
			Emoji:     data.Emoji,
		}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeUnknownType, Msg: "unknown message type"}, nil
	}
}

func messagePayload(msg *store.Message) proto.MessagePayload {
	return proto.MessagePayload{
		ID:           msg.ID,
		RoomID:       msg.RoomID,
		SenderName:   msg.SenderName,
		ReceiverName: msg.Receiver,
		Message:      msg.Body,
		Status:       string(msg.Status),
		IsDeleted:    msg.Deleted,
		Reactions:    msg.Reactions,
		CreatedAt:    msg.CreatedAt.Unix(),
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventUserStatus:
		payload := proto.UserStatusPayload{
			Username: event.User,
			IsOnline: event.Online,
		}
		if event.LastSeen != nil {
			payload.LastSeen = event.LastSeen.UnixMilli()
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserStatusUpdated,
			Data:  payload,
		}
	case core.EventGroupOnlineUsers:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventGroupOnlineUsers,
			Data: proto.GroupOnlineUsersPayload{
				RoomID: event.Room,
				Users:  event.Users,
			},
		}
	case core.EventTyping:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserTyping,
			Data: proto.TypingPayload{
				RoomID:   event.Room,
				Username: event.User,
			},
		}
	case core.EventStopTyping:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserStopTyping,
			Data:  proto.TypingPayload{RoomID: event.Room},
		}
	case core.EventMessageReceived:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveMessage,
			Data:  messagePayload(event.Message),
		}
	case core.EventMessageUpdated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessageUpdated,
			Data:  messagePayload(event.Message),
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
