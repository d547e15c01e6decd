package audio

// InjectAudio queues a payload as if it had arrived over HTTP.
func (h *HTTPSource) InjectAudio(data []byte) bool {
	return h.enqueue(data)
}
