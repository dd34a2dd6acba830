package stdlib

// PosixX86_64 is the System V AMD64 catalogue: argument registers rdi, rsi,
// rdx, rcx, r8, r9, built on glibc's printf/scanf/fgets/rand/usleep. Bodies
// are adapted from original_source/libs/stdio.py's _init_libc, whose
// hand-written assembly used the Windows x64 (rcx/rdx) register order even
// under the libc branch; here every body is rewritten onto the System V
// order its own ArgRegisters() convention actually uses.
func PosixX86_64() *Catalogue {
	return newCatalogue([]Entry{
		{
			Name: "initstdio",
			Code: []string{"_initstdio:", "    ret"},
		},
		{
			Name: "print",
			Code: []string{
				"_print_string:",
				"    sub rsp, 8",
				"    mov rsi, rdi",
				"    lea rdi, [rel .fmt_s]",
				"    xor rax, rax",
				"    call printf",
				"    add rsp, 8",
				"    ret",
				".fmt_s: db \"%s\", 0",
				"",
				"_print_number:",
				"    sub rsp, 8",
				"    mov rsi, rdi",
				"    lea rdi, [rel .fmt_n]",
				"    xor rax, rax",
				"    call printf",
				"    add rsp, 8",
				"    ret",
				".fmt_n: db \"%lld\", 0",
				"",
				"_print_hex:",
				"    sub rsp, 8",
				"    mov rsi, rdi",
				"    lea rdi, [rel .fmt_h]",
				"    xor rax, rax",
				"    call printf",
				"    add rsp, 8",
				"    ret",
				".fmt_h: db \"0x%llX\", 0",
			},
			Externs:  []string{"printf"},
			Requires: []string{"initstdio"},
		},
		{
			Name:     "_print_newline",
			Code:     []string{"_print_newline:", "    lea rdi, [rel _newline_str]", "    jmp _print_string"},
			Data:     []string{"_newline_str: db 10, 0"},
			Requires: []string{"print"},
		},
		{
			Name: "scan",
			Code: []string{
				"_scan_string:",
				"    ; rdi = buffer, rsi = size",
				"    sub rsp, 8",
				"    mov rdx, [rel stdin]",
				"    call fgets",
				"    mov rdi, rax",
				"    test rdi, rdi",
				"    jz .done",
				"    call _strlen",
				"    cmp rax, 0",
				"    je .done",
				"    mov rdx, rax",
				"    dec rdx",
				"    cmp byte [rdi + rdx], 10",
				"    jne .done",
				"    mov byte [rdi + rdx], 0",
				".done:",
				"    add rsp, 8",
				"    ret",
			},
			Externs:  []string{"fgets", "stdin"},
			Requires: []string{"initstdio", "strlen"},
		},
		{
			Name: "scanint",
			Code: []string{
				"_scanint:",
				"    ; rdi = int pointer",
				"    sub rsp, 8",
				"    mov rsi, rdi",
				"    lea rdi, [rel .fmt]",
				"    xor rax, rax",
				"    call scanf",
				"    add rsp, 8",
				"    ret",
				".fmt: db \"%lld\", 0",
			},
			Externs:  []string{"scanf"},
			Requires: []string{"initstdio"},
		},
		{
			Name: "strlen",
			Code: []string{
				"_strlen:",
				"    xor rax, rax",
				"    mov rcx, rdi",
				".loop:",
				"    cmp byte [rcx], 0",
				"    je .done",
				"    inc rax",
				"    inc rcx",
				"    jmp .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "strcpy",
			Code: []string{
				"_strcpy:",
				"    ; rdi = dest, rsi = src",
				"    mov rax, rdi",
				".loop:",
				"    mov dl, [rsi]",
				"    mov [rdi], dl",
				"    test dl, dl",
				"    jz .done",
				"    inc rdi",
				"    inc rsi",
				"    jmp .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "strcmp",
			Code: []string{
				"_strcmp:",
				"    ; rdi, rsi",
				".loop:",
				"    mov al, [rdi]",
				"    mov dl, [rsi]",
				"    cmp al, dl",
				"    jne .neq",
				"    test al, al",
				"    jz .eq",
				"    inc rdi",
				"    inc rsi",
				"    jmp .loop",
				".eq:",
				"    xor rax, rax",
				"    ret",
				".neq:",
				"    movzx rax, al",
				"    movzx rdx, dl",
				"    sub rax, rdx",
				"    ret",
			},
		},
		{
			Name: "strcat",
			Code: []string{
				"_strcat:",
				"    ; rdi = dest, rsi = src",
				"    push r12",
				"    push r13",
				"    mov r12, rdi",
				"    mov r13, rsi",
				".find:",
				"    cmp byte [rdi], 0",
				"    je .copy",
				"    inc rdi",
				"    jmp .find",
				".copy:",
				"    mov al, [r13]",
				"    mov [rdi], al",
				"    test al, al",
				"    jz .done",
				"    inc rdi",
				"    inc r13",
				"    jmp .copy",
				".done:",
				"    mov rax, r12",
				"    pop r13",
				"    pop r12",
				"    ret",
			},
		},
		{
			Name: "abs",
			Code: []string{
				"_abs:",
				"    mov rax, rdi",
				"    test rax, rax",
				"    jns .done",
				"    neg rax",
				".done:",
				"    ret",
			},
		},
		{
			Name: "min",
			Code: []string{
				"_min:",
				"    mov rax, rdi",
				"    cmp rdi, rsi",
				"    jle .done",
				"    mov rax, rsi",
				".done:",
				"    ret",
			},
		},
		{
			Name: "max",
			Code: []string{
				"_max:",
				"    mov rax, rdi",
				"    cmp rdi, rsi",
				"    jge .done",
				"    mov rax, rsi",
				".done:",
				"    ret",
			},
		},
		{
			Name: "pow",
			Code: []string{
				"_pow:",
				"    push r12",
				"    push r13",
				"    mov r12, rdi",
				"    mov r13, rsi",
				"    mov rax, 1",
				"    test r13, r13",
				"    jz .done",
				".loop:",
				"    imul rax, r12",
				"    dec r13",
				"    jnz .loop",
				".done:",
				"    pop r13",
				"    pop r12",
				"    ret",
			},
		},
		{
			Name: "arraysum",
			Code: []string{
				"_arraysum:",
				"    ; rdi = ptr, rsi = count",
				"    xor rax, rax",
				"    test rsi, rsi",
				"    jz .done",
				".loop:",
				"    add rax, [rdi]",
				"    add rdi, 8",
				"    dec rsi",
				"    jnz .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "arrayfill",
			Code: []string{
				"_arrayfill:",
				"    ; rdi = ptr, rsi = count, rdx = value",
				"    test rsi, rsi",
				"    jz .done",
				".loop:",
				"    mov [rdi], rdx",
				"    add rdi, 8",
				"    dec rsi",
				"    jnz .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "arraycopy",
			Code: []string{
				"_arraycopy:",
				"    ; rdi = dest, rsi = src, rdx = count",
				"    test rdx, rdx",
				"    jz .done",
				".loop:",
				"    mov rax, [rsi]",
				"    mov [rdi], rax",
				"    add rdi, 8",
				"    add rsi, 8",
				"    dec rdx",
				"    jnz .loop",
				".done:",
				"    ret",
			},
		},
		{
			Name: "memset",
			Code: []string{
				"_memset:",
				"    ; rdi = ptr, rsi = byte value, rdx = count",
				"    push r12",
				"    mov r12, rdi",
				"    test rdx, rdx",
				"    jz .done",
				".loop:",
				"    mov [rdi], sil",
				"    inc rdi",
				"    dec rdx",
				"    jnz .loop",
				".done:",
				"    mov rax, r12",
				"    pop r12",
				"    ret",
			},
		},
		{
			Name: "memcpy",
			Code: []string{
				"_memcpy:",
				"    ; rdi = dest, rsi = src, rdx = count",
				"    push r12",
				"    mov r12, rdi",
				"    test rdx, rdx",
				"    jz .done",
				".loop:",
				"    mov al, [rsi]",
				"    mov [rdi], al",
				"    inc rdi",
				"    inc rsi",
				"    dec rdx",
				"    jnz .loop",
				".done:",
				"    mov rax, r12",
				"    pop r12",
				"    ret",
			},
		},
		{
			Name:    "rand",
			Code:    []string{"_rand:", "    sub rsp, 8", "    call rand", "    add rsp, 8", "    ret"},
			Externs: []string{"rand"},
		},
		{
			Name: "sleep",
			Code: []string{
				"_sleep:",
				"    ; rdi has milliseconds",
				"    imul rdi, 1000",
				"    sub rsp, 8",
				"    call usleep",
				"    add rsp, 8",
				"    ret",
			},
			Externs: []string{"usleep"},
		},
	})
}
