// internal/testutil/fixtures.go
package testutil

// Respuestas HTTP capturadas para los tests del fingerprinter.

// FixtureWebFigResponse imita la página de login de WebFig en RouterOS 6.
const FixtureWebFigResponse = "HTTP/1.1 200 OK\r\n" +
	"Content-Type: text/html\r\n" +
	"Connection: close\r\n" +
	"\r\n" +
	"<!DOCTYPE html><html><head><title>RouterOS router configuration page</title></head>" +
	"<body><h1>RouterOS v6.49.6</h1><div id=\"webfig\">mikrotik</div></body></html>"

// FixtureMikrotikHeaderResponse solo se delata por la cabecera Server.
const FixtureMikrotikHeaderResponse = "HTTP/1.0 401 Unauthorized\r\n" +
	"Server: Mikrotik HttpProxy\r\n" +
	"Content-Length: 0\r\n" +
	"\r\n"

// FixtureNginxResponse es un servidor web cualquiera.
const FixtureNginxResponse = "HTTP/1.1 200 OK\r\n" +
	"Server: nginx/1.24.0\r\n" +
	"Content-Type: text/html\r\n" +
	"\r\n" +
	"<html><head><title>Welcome to nginx!</title></head><body>It works</body></html>"

// FixtureSSHBanner no es HTTP.
const FixtureSSHBanner = "SSH-2.0-OpenSSH_9.6\r\n"
