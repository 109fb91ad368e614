package model

type ServeNotificationEngineRequest struct{}

type ServeNotificationEngineResponse struct{}

type ServeNotificationProxyRequest struct{}

type ServeNotificationProxyResponse struct{}
