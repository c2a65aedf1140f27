package mcp

import (
	"fmt"

	"repogenome/internal/rgerrors"
)

// handleMessage routes one decoded Message to a response, or nil for
// notifications (which never get one).
func (s *Server) handleMessage(msg *Message) *Message {
	if msg.IsRequest() {
		return s.handleRequest(msg)
	}
	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}
	return NewErrorMessage(msg.Id, InvalidRequest, "invalid message: not a request or notification", nil)
}

func (s *Server) handleRequest(msg *Message) *Message {
	s.logf("debug", "handling request", map[string]interface{}{"method": msg.Method, "id": msg.Id})

	switch msg.Method {
	case "initialize":
		return s.handleInitializeRequest(msg)
	case "tools/list":
		return s.handleListToolsRequest(msg)
	case "tools/call":
		return s.handleCallToolRequest(msg)
	case "resources/list":
		return s.handleListResourcesRequest(msg)
	case "resources/read":
		return s.handleReadResourceRequest(msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("method not found: %s", msg.Method), nil)
	}
}

func (s *Server) handleNotification(msg *Message) {
	s.logf("debug", "handling notification", map[string]interface{}{"method": msg.Method})
	switch msg.Method {
	case "notifications/initialized":
		s.logf("info", "client initialized", nil)
	default:
		s.logf("debug", "unknown notification", map[string]interface{}{"method": msg.Method})
	}
}

func paramsOf(msg *Message) (map[string]interface{}, bool) {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return make(map[string]interface{}), msg.Params == nil
	}
	return params, true
}

func (s *Server) handleInitializeRequest(msg *Message) *Message {
	params, _ := paramsOf(msg)
	return NewResultMessage(msg.Id, s.handleInitialize(params))
}

func (s *Server) handleListToolsRequest(msg *Message) *Message {
	return NewResultMessage(msg.Id, map[string]interface{}{"tools": s.toolDefinitions()})
}

func (s *Server) handleCallToolRequest(msg *Message) *Message {
	params, ok := paramsOf(msg)
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "invalid params: expected object", nil)
	}

	result, err := s.handleCallTool(params)
	if err != nil {
		if rgErr, ok := err.(*rgerrors.Error); ok {
			return NewErrorMessage(msg.Id, InternalError, rgErr.Error(), map[string]interface{}{
				"code": rgErr.Code,
				"hint": rgErr.Hint,
			})
		}
		return NewErrorMessage(msg.Id, InternalError, err.Error(), nil)
	}
	return NewResultMessage(msg.Id, result)
}

func (s *Server) handleListResourcesRequest(msg *Message) *Message {
	resources, templates := s.GetResourceDefinitions()
	return NewResultMessage(msg.Id, map[string]interface{}{
		"resources":         resources,
		"resourceTemplates": templates,
	})
}

func (s *Server) handleReadResourceRequest(msg *Message) *Message {
	params, ok := paramsOf(msg)
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "invalid params: expected object", nil)
	}
	uri, ok := params["uri"].(string)
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "missing required param: uri", nil)
	}

	sess, err := s.contract.Ensure(sessionIDOf(params))
	if err != nil {
		return NewErrorMessage(msg.Id, InternalError, err.Error(), nil)
	}

	result, cerr := s.handleResourceRead(sess, uri)
	if cerr != nil {
		if rgErr, ok := cerr.(*rgerrors.Error); ok {
			return NewErrorMessage(msg.Id, InternalError, rgErr.Error(), map[string]interface{}{"code": rgErr.Code})
		}
		return NewErrorMessage(msg.Id, InternalError, cerr.Error(), nil)
	}

	return NewResultMessage(msg.Id, map[string]interface{}{
		"contents": []map[string]interface{}{
			{"uri": uri, "mimeType": "application/json", "text": jsonString(result)},
		},
	})
}

// handleCallTool resolves the session, enforces the Agent Contract, and
// dispatches to the named tool (spec §4.10's middleware, grounded on
// original_source/repogenome/mcp/contract.py's
// enforce_contract_middleware).
func (s *Server) handleCallTool(params map[string]interface{}) (interface{}, error) {
	toolName, ok := params["name"].(string)
	if !ok {
		return nil, rgerrors.New(rgerrors.InvalidInput, "missing required param: name")
	}
	toolParams, ok := params["arguments"].(map[string]interface{})
	if !ok {
		toolParams = make(map[string]interface{})
	}

	handler, exists := s.tools[toolName]
	if !exists {
		return nil, rgerrors.New(rgerrors.NotFound, "unknown tool: "+toolName)
	}

	sess, err := s.contract.Ensure(sessionIDOf(toolParams))
	if err != nil {
		return nil, err
	}
	if violation := s.contract.Enforce(toolName, sess); violation != nil {
		return nil, violation
	}

	s.logf("info", "calling tool", map[string]interface{}{"tool": toolName})

	result, err := handler(sess, toolParams)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"content": []map[string]interface{}{{"type": "text", "text": jsonString(result)}},
	}, nil
}
