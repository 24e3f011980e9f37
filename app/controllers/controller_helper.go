package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// GetClientIP determines the actual client IP address considering proxies and dual stack.
// Returns both IPv4 and IPv6 addresses if available.
func GetClientIP(c *fiber.Ctx) (string, string) {
	ipv4 := ""
	ipv6 := ""

	cfIP := c.Get("CF-Connecting-IP")
	if cfIP != "" {
		if strings.Contains(cfIP, ":") {
			ipv6 = cfIP
			xffList := strings.Split(c.Get("X-Forwarded-For"), ",")
			for _, ip := range xffList {
				ip = strings.TrimSpace(ip)
				if ip != "" && !strings.Contains(ip, ":") {
					ipv4 = ip
					break
				}
			}
		} else {
			ipv4 = cfIP
		}
		return ipv4, ipv6
	}

	xff := c.Get("X-Forwarded-For")
	if xff != "" {
		for _, ip := range strings.Split(xff, ",") {
			ip = strings.TrimSpace(ip)
			if ip == "" {
				continue
			}
			if strings.Contains(ip, ":") {
				if ipv6 == "" {
					ipv6 = ip
				}
			} else if ipv4 == "" {
				ipv4 = ip
			}
		}
		if ipv4 != "" || ipv6 != "" {
			return ipv4, ipv6
		}
	}

	remote := c.IP()
	if strings.Contains(remote, ":") {
		ipv6 = remote
	} else {
		ipv4 = remote
	}
	return ipv4, ipv6
}
