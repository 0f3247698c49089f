// Package apiresponses provides the JSON response helpers shared by the HTTP
// handlers so every endpoint renders success and error bodies the same way.
package apiresponses
