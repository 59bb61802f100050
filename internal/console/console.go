// Package console связывает интерактивные сценарии с построчным вводом и выводом.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
)

// ErrorPrefix ставится перед каждым сообщением об ошибке, видимым пользователю.
const ErrorPrefix = "error: "

// MaxLineLength — предел длины строки ввода; хвост более длинной строки отбрасывается.
const MaxLineLength = 64 * 1024

// ErrInputClosed возвращается, когда ввод закончился посреди запроса.
var ErrInputClosed = errors.New("input closed")

type lineResult struct {
	line string
	err  error
}

// Console читает ответы построчно и печатает подсказки.
// Не предназначен для одновременного использования из нескольких горутин.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	// lines получает результат чтения, запущенного в фоне; reading — чтение ещё не забрано.
	lines   chan lineResult
	reading bool
}

// New создаёт консоль поверх произвольных reader/writer (stdin/stdout в main, буферы в тестах).
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan lineResult, 1),
	}
}

// Out возвращает writer для отчётов и сообщений.
func (c *Console) Out() io.Writer {
	return c.out
}

// Ask печатает подсказку и возвращает строку без пробелов по краям.
// Отмена ctx прерывает ожидание ввода; начатое чтение достаётся следующему Ask.
// Строка длиннее MaxLineLength даёт domain.ErrInputTooLong.
func (c *Console) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(c.out, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	if !c.reading {
		c.reading = true
		go func() {
			line, err := c.readLine()
			c.lines <- lineResult{line: line, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-c.lines:
		c.reading = false
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// readLine читает одну строку целиком, не накапливая больше MaxLineLength байт.
func (c *Console) readLine() (string, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := c.in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(buf) > 0 || tooLong {
					break
				}
				return "", ErrInputClosed
			}
			return "", fmt.Errorf("read input: %w", err)
		}
		if !tooLong {
			if len(buf)+len(chunk) > MaxLineLength {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", fmt.Errorf("%w: limit %d bytes", domain.ErrInputTooLong, MaxLineLength)
	}
	return string(buf), nil
}

// Println печатает строку сообщения.
func (c *Console) Println(args ...any) {
	_, _ = fmt.Fprintln(c.out, args...)
}

// Printf печатает форматированное сообщение.
func (c *Console) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// Error печатает ошибку с единым префиксом.
func (c *Console) Error(err error) {
	_, _ = fmt.Fprintln(c.out, ErrorPrefix+err.Error())
}

// AskUntil повторяет запрос, пока validate не примет ответ.
// Ошибка валидатора или слишком длинная строка печатаются и запрос повторяется;
// остальные ошибки ввода возвращаются сразу.
func AskUntil[T any](ctx context.Context, c *Console, prompt string, validate func(string) (T, error)) (T, error) {
	for {
		raw, err := c.Ask(ctx, prompt)
		if errors.Is(err, domain.ErrInputTooLong) {
			c.Error(err)
			continue
		}
		if err != nil {
			var zero T
			return zero, err
		}
		value, err := validate(raw)
		if err != nil {
			c.Error(err)
			continue
		}
		return value, nil
	}
}
